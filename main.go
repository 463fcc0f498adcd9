package main

import "nathanbeddoewebdev/panelctl/cmd"

func main() {
	cmd.Execute()
}
