package main

import "github.com/fghdfjhgj/firmget/cmd"

func main() {
	cmd.Execute()
}
