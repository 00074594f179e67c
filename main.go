package main

import "github.com/ImranSah/gosh/cmd"

func main() {
	cmd.Execute()
}
