package main

import "aristo/cmd"

func main() {
	cmd.Execute()
}
