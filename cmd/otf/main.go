package main

import "github.com/OpenTraceLab/OpenTraceFootprint/cmd/otf/cmd"

func main() {
	cmd.Execute()
}
