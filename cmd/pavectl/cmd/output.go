package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q, expected json or yaml", format)
	}
}

func (c *cli) print(w io.Writer, v any) error {
	var (
		out []byte
		err error
	)
	if c.output == outputYAML {
		out, err = yaml.Marshal(v)
	} else {
		out, err = json.MarshalIndent(v, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	_, err = w.Write(out)
	return err
}
