package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	envPeakTableDataDir = "PEAKTABLE_DATA_DIR"
	envPeakTablePlotDir = "PEAKTABLE_PLOT_DIR"

	peakTableExt = ".tabbin"
)

// stdinIsTTY is a small seam for tests.
var stdinIsTTY = isTTY

// resolvePlotOut returns where the figure for inPath is written. The boolean
// reports whether the path was derived rather than given. The output
// directory comes from the environment, then cfgDir, then ./out.
func resolvePlotOut(inPath, outFlag, cfgDir string) (string, bool, error) {
	outFlag = strings.TrimSpace(outFlag)
	if outFlag != "" {
		outPath := filepath.Clean(outFlag)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return "", false, err
		}
		return outPath, false, nil
	}

	base := strings.TrimSuffix(filepath.Base(filepath.Clean(inPath)), filepath.Ext(inPath))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", true, fmt.Errorf("invalid input path: %q", inPath)
	}

	outDir := strings.TrimSpace(os.Getenv(envPeakTablePlotDir))
	if outDir == "" {
		outDir = strings.TrimSpace(cfgDir)
	}
	if outDir == "" {
		outDir = filepath.Join(".", "out")
	}

	outPath := filepath.Join(outDir, base+".png")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", true, err
	}
	return outPath, true, nil
}

func resolveInputPath(fileFlag, dataDir string, stdin io.Reader, stderr io.Writer) (string, error) {
	fileFlag = strings.TrimSpace(fileFlag)
	if fileFlag != "" {
		return filepath.Clean(fileFlag), nil
	}

	dir := strings.TrimSpace(dataDir)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(envPeakTableDataDir))
	}
	if dir == "" {
		return "", fmt.Errorf("--file or --data-dir is required unless %s is set", envPeakTableDataDir)
	}

	tables, err := discoverPeakTables(dir)
	if err != nil {
		return "", err
	}
	switch len(tables) {
	case 0:
		return "", fmt.Errorf("no %s peak tables found in %s", peakTableExt, dir)
	case 1:
		_, _ = fmt.Fprintf(stderr, "peaktable: using %s\n", tables[0])
		return tables[0], nil
	default:
		if !stdinIsTTY() {
			return "", fmt.Errorf(
				"multiple peak tables found in %s but stdin is not interactive; set --file",
				dir,
			)
		}
		return selectTableInteractively(dir, tables, stdin, stderr)
	}
}

// discoverPeakTables walks dir for peak tables. Files prefixed "pre_" are
// preliminary output and skipped. When peak-hunt tables exist only those are
// returned, then profile-fit tables, otherwise every candidate.
func discoverPeakTables(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("data directory is empty")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("data path is not a directory: %s", dir)
	}

	tiers := make([][]string, 3)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if !strings.HasSuffix(name, peakTableExt) || strings.HasPrefix(name, "pre_") {
			return nil
		}
		tier := tableTier(name)
		tiers[tier] = append(tiers[tier], path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, tables := range tiers {
		if len(tables) > 0 {
			sort.Strings(tables)
			return tables, nil
		}
	}
	return nil, nil
}

func tableTier(lowerName string) int {
	switch {
	case strings.HasSuffix(lowerName, "_peakhunt"+peakTableExt):
		return 0
	case strings.HasSuffix(lowerName, "_proffitpeak"+peakTableExt):
		return 1
	default:
		return 2
	}
}

func selectTableInteractively(dataDir string, tables []string, stdin io.Reader, stderr io.Writer) (string, error) {
	if len(tables) == 0 {
		return "", fmt.Errorf("no peak tables available in %s", dataDir)
	}

	_, _ = fmt.Fprintf(stderr, "peaktable: select a peak table from %s\n", dataDir)
	for i, t := range tables {
		_, _ = fmt.Fprintf(stderr, "%d. %s\n", i+1, tableDisplayName(dataDir, t))
	}

	reader := bufio.NewReader(stdin)
	for {
		_, _ = fmt.Fprintf(stderr, "peaktable: enter selection [1-%d]: ", len(tables))
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if errors.Is(err, io.EOF) {
				return "", errors.New("no selection provided on stdin; set --file")
			}
			continue
		}

		idx, convErr := strconv.Atoi(line)
		if convErr != nil || idx < 1 || idx > len(tables) {
			_, _ = fmt.Fprintf(stderr, "peaktable: invalid selection %q\n", line)
			if errors.Is(err, io.EOF) {
				return "", errors.New("invalid selection provided on stdin; set --file")
			}
			continue
		}
		return tables[idx-1], nil
	}
}

func tableDisplayName(dataDir, path string) string {
	rel, err := filepath.Rel(dataDir, path)
	if err != nil || rel == "." {
		return filepath.Base(path)
	}
	return rel
}

func isTTY() bool {
	st, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (st.Mode() & os.ModeCharDevice) != 0
}
