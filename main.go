package main

import "metacyc/pwyexport/cmd"

func main() {
	cmd.Execute()
}
