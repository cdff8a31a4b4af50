package main

import (
	"flag"
	"fmt"
)

func doDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	input := fs.String("input", "", "source KTX/KTX2 container")
	output := fs.String("output", "", "destination PNG preview")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		return fmt.Errorf("-input and -output are required")
	}

	buf, err := decodeContainerToImage(*input)
	if err != nil {
		return err
	}
	return buf.SavePNG(*output)
}
