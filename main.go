package main

import "rosmqtt/cmd"

func main() {
	cmd.Execute()
}
