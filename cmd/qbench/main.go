package main

import "github.com/NVIDIA/qbench/pkg/cli"

func main() {
	cli.Execute()
}
