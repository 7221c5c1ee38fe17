package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"pilgrim-insights-go/internal/dataset"
	"pilgrim-insights-go/internal/types"
)

func main() {
	cfg := dataset.DefaultGeneratorConfig()
	var (
		size        = flag.Int("size", cfg.Size, "number of pilgrims to generate")
		seed        = flag.Uint("seed", uint(cfg.Seed), "random seed for deterministic generation")
		minStay     = flag.Int("min-stay", cfg.MinStayDays, "minimum days between arrival and departure")
		reportPath  = flag.String("report", "", "expand an operator report (JSON) instead of generating")
		output      = flag.String("output", "data/pilgrims.json", "output file (.json or .xlsx)")
		writeStdout = flag.Bool("stdout", false, "write the dataset as JSON to stdout instead of a file")
	)
	flag.Parse()
	seed32, err := seedValue(*seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var records []types.Pilgrim
	if *reportPath != "" {
		records, err = fromReport(*reportPath, seed32)
	} else {
		records, err = dataset.Generate(dataset.GeneratorConfig{
			Size:        *size,
			Seed:        seed32,
			MinStayDays: *minStay,
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}
	if err := dataset.Validate(records); err != nil {
		fmt.Fprintf(os.Stderr, "generated dataset is invalid: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(records); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := dataset.Write(records, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Generated %d pilgrims into %s\n", len(records), *output)
}

func fromReport(path string, seed uint32) ([]types.Pilgrim, error) {
	r, err := dataset.LoadReport(path)
	if err != nil {
		return nil, err
	}
	return dataset.FromReport(r, seed)
}

func seedValue(v uint) (uint32, error) {
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("seed %d does not fit in 32 bits", v)
	}
	return uint32(v), nil
}
