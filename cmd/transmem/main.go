package main

import "github.com/emrgen/transmem/cmd"

func main() {
	cmd.Execute()
}
