package openfda

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
)

// ProductFileURL is the FDA NDC directory bulk product file. The FDA
// rotates this link occasionally; check the NDC directory page when the
// download starts failing.
const ProductFileURL = "https://www.fda.gov/media/151379/download"

// DownloadProductFile fetches the bulk product file to destPath, converting
// ISO-8859-1 content to UTF-8. The FDA ships this file in a mix of encodings
// across releases, so the content is sniffed before decoding.
func DownloadProductFile(ctx context.Context, fileURL, destPath string) error {
	cleanPath := filepath.Clean(destPath)

	client := &http.Client{Timeout: 5 * time.Minute}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	response, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", fileURL, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("product file download returned status %d", response.StatusCode)
	}

	bodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var reader io.Reader
	if utf8.Valid(bodyBytes) {
		reader = bytes.NewReader(bodyBytes)
	} else {
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	}

	outFile, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", cleanPath, err)
	}
	defer func() {
		if err := outFile.Close(); err != nil {
			logging.Warn("Failed to close output file", "error", err)
		}
	}()

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0), 1*1024*1024)

	for scanner.Scan() {
		if _, err := io.WriteString(outFile, scanner.Text()+"\n"); err != nil {
			return fmt.Errorf("failed to write to file %s: %w", cleanPath, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error in %s: %w", cleanPath, err)
	}

	logging.Debug("Product file downloaded", "path", cleanPath)
	return nil
}

// Columns of interest in the tab-separated product file.
const (
	colProductNDC     = "PRODUCTNDC"
	colProprietary    = "PROPRIETARYNAME"
	colNonProprietary = "NONPROPRIETARYNAME"
	colDosageForm     = "DOSAGEFORMNAME"
	colRoute          = "ROUTENAME"
	colSubstance      = "SUBSTANCENAME"
	colLabeler        = "LABELERNAME"
)

// ParseProductFile reads the bulk product file into a code to description
// map: "name - dosage form (route) [substance] | labeler". Rows without a
// product NDC are skipped.
func ParseProductFile(path string) (map[string]string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open product file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close product file", "error", err)
		}
	}()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0), 1*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read product file header: %w", err)
		}
		return nil, fmt.Errorf("product file %s is empty", path)
	}

	columns := make(map[string]int)
	for i, name := range strings.Split(scanner.Text(), "\t") {
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns[colProductNDC]; !ok {
		return nil, fmt.Errorf("product file %s has no %s column", path, colProductNDC)
	}

	field := func(fields []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	mapping := make(map[string]string)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")

		ndc := field(fields, colProductNDC)
		if ndc == "" {
			continue
		}

		name := field(fields, colProprietary)
		if name == "" {
			name = field(fields, colNonProprietary)
		}

		description := name
		if v := field(fields, colDosageForm); v != "" {
			description += " - " + v
		}
		if v := field(fields, colRoute); v != "" {
			description += " (" + v + ")"
		}
		if v := field(fields, colSubstance); v != "" {
			description += " [" + v + "]"
		}
		if v := field(fields, colLabeler); v != "" {
			description += " | " + v
		}

		mapping[ndc] = strings.TrimSpace(description)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error in %s: %w", path, err)
	}

	logging.Debug("Product file parsed", "path", path, "products", len(mapping))
	return mapping, nil
}
