package main

import "github.com/kneescan/vag-analyzer/cmd"

func main() {
	cmd.Execute()
}
