package main

import "github.com/gaurav-prasanna/mailpipe/cmd"

func main() {
	cmd.Execute()
}
