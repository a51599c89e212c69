package main

import (
	"os"

	"go.pavemaster.dev/integrations/cmd/pavectl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
