package main

import "github.com/qrave1/ListenRoom/cmd"

func main() {
	cmd.Execute()
}
