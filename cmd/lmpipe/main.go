package main

import "github.com/askiada/lm-pipeline/internal/cli"

func main() {
	cli.Execute()
}
