package main

import "github.com/StinkyLord/flymake/cmd"

func main() {
	cmd.Execute()
}
