package main

import "best_route/cmd"

func main() {
	cmd.Execute()
}
