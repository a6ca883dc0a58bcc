package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/tagforge/label-engine/internal/api"
	"github.com/tagforge/label-engine/internal/ledger"
)

// Version is set during build via ldflags
var Version = "dev"

func main() {
	port := getPort()
	ledgerPath := getLedgerPath()

	led, err := ledger.New(ledgerPath)
	if err != nil {
		log.Fatalf("Failed to open barcode ledger: %v", err)
	}

	server := api.NewServer(led)

	serverErrChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", port)
		log.Printf("Starting label engine %s on %s (ledger: %s)", Version, addr, ledgerPath)
		if err := server.Run(addr); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received %v, shutting down", sig)
		os.Exit(0)
	}
}

func getPort() string {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		return port
	}

	for i, arg := range os.Args {
		if arg == "--port" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}

	return "12230"
}

// getLedgerPath returns the path to the issued-barcode ledger file.
// It tries to place it next to the executable, or falls back to the
// current directory, then a per-user config directory.
func getLedgerPath() string {
	if path := os.Getenv("LEDGER_PATH"); path != "" {
		return path
	}

	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		ledgerPath := filepath.Join(exeDir, "barcode_ledger.json")

		if info, err := os.Stat(exeDir); err == nil && info.IsDir() {
			testFile := filepath.Join(exeDir, ".label-engine-write-test")
			if f, err := os.Create(testFile); err == nil {
				f.Close()
				os.Remove(testFile)
				return ledgerPath
			}
		}
	}

	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "barcode_ledger.json")
	}

	var configDir string
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			configDir = filepath.Join(appData, "label-engine")
		} else {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "label-engine")
		}
	} else {
		if home := os.Getenv("HOME"); home != "" {
			configDir = filepath.Join(home, ".config", "label-engine")
		}
	}

	if configDir != "" {
		os.MkdirAll(configDir, 0755)
		return filepath.Join(configDir, "barcode_ledger.json")
	}

	return "barcode_ledger.json"
}
