package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/tagforge/label-engine/pkg/printformat"
)

const defaultServerURL = "http://localhost:12230"

func main() {
	var serverURL, output string
	flag.StringVar(&serverURL, "server", defaultServerURL, "Server URL")
	flag.StringVar(&serverURL, "s", defaultServerURL, "Server URL (short)")
	flag.StringVar(&output, "o", "", "Output file (default depends on command)")
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	args := flag.Args()
	var err error

	switch args[0] {
	case "labels":
		err = runLabels(serverURL, args[1:], output)
	case "receipt":
		err = runReceipt(serverURL, args[1:], output)
	case "preview":
		err = runPreview(serverURL, args[1:], output)
	case "templates":
		err = runTemplates(serverURL)
	case "generate":
		err = runGenerate(serverURL, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Label Engine CLI

Usage:
  label-cli [flags] <command>

Flags:
  -s, -server <url>    Server URL (default: %s)
  -o <file>            Output file

Commands:
  labels <batch.json>
    Render a price-tag batch to PDF (default output: labels.pdf)

  receipt <job.json>
    Render a receipt job to PDF (default output: receipt.pdf)

  preview <batch.json>
    Render the first label of a batch to PNG (default output: preview.png)

  templates
    List available label templates

  generate <organization-id> [EAN13|CODE128]
    Generate a unique barcode for an organization
`, defaultServerURL)
}

func runLabels(serverURL string, args []string, output string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: labels <batch.json>")
	}
	if output == "" {
		output = "labels.pdf"
	}

	// Validate locally before posting so errors point at the file.
	if _, err := printformat.ParseLabelBatchFile(args[0]); err != nil {
		return err
	}

	return postFile(serverURL+"/print/labels", args[0], output)
}

func runReceipt(serverURL string, args []string, output string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: receipt <job.json>")
	}
	if output == "" {
		output = "receipt.pdf"
	}

	if _, err := printformat.ParseReceiptJobFile(args[0]); err != nil {
		return err
	}

	return postFile(serverURL+"/print/receipt", args[0], output)
}

func runPreview(serverURL string, args []string, output string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: preview <batch.json>")
	}
	if output == "" {
		output = "preview.png"
	}

	if _, err := printformat.ParseLabelBatchFile(args[0]); err != nil {
		return err
	}

	return postFile(serverURL+"/preview/label", args[0], output)
}

func runTemplates(serverURL string) error {
	resp, err := http.Get(serverURL + "/templates")
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Templates []struct {
			ID            string  `json:"id"`
			Grid          bool    `json:"grid"`
			PageWidth     float64 `json:"page_width"`
			PageHeight    float64 `json:"page_height"`
			LabelsPerPage int     `json:"labels_per_page"`
		} `json:"templates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	for _, t := range result.Templates {
		kind := "roll"
		if t.Grid {
			kind = "grid"
		}
		fmt.Printf("%-6s %-5s %.0fx%.0fpt  %d labels/page\n",
			t.ID, kind, t.PageWidth, t.PageHeight, t.LabelsPerPage)
	}
	return nil
}

func runGenerate(serverURL string, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: generate <organization-id> [EAN13|CODE128]")
	}

	payload := map[string]string{"organization_id": args[0]}
	if len(args) == 2 {
		payload["mode"] = args[1]
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(serverURL+"/barcodes/generate", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, readError(data))
	}

	var result struct {
		Barcode string `json:"barcode"`
		Mode    string `json:"mode"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("%s (%s)\n", result.Barcode, result.Mode)
	return nil
}

// postFile posts a JSON document and writes the binary response to disk.
func postFile(url, inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, readError(body))
	}

	if err := os.WriteFile(outputPath, body, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", outputPath, len(body))
	return nil
}

func readError(data []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return string(data)
}
