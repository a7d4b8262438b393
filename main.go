package main

import "github.com/alexisdeudon01/IDS4/cmd"

func main() {
	cmd.Execute()
}
