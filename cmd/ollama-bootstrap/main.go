package main

import "github.com/oshokin/ollama-bootstrap/cmd/ollama-bootstrap/cmd"

func main() {
	cmd.Execute()
}
