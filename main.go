package main

import "github.com/gaurav-prasanna/langsearch/cmd"

func main() {
	cmd.Execute()
}
