package main

import (
	"flag"
	"fmt"
)

type scriptOptions struct {
	InputPath string
	Jobs      int
}

func parseScriptFlags(args []string) (scriptOptions, error) {
	fs := flag.NewFlagSet("script", flag.ContinueOnError)
	input := fs.String("input", "", "command file to run")
	jobs := fs.Int("jobs", 0, "worker count, capped at the job count; 0 uses one worker per CPU")
	if err := fs.Parse(args); err != nil {
		return scriptOptions{}, err
	}
	if *input == "" {
		return scriptOptions{}, fmt.Errorf("-input is required")
	}
	return scriptOptions{InputPath: *input, Jobs: *jobs}, nil
}
