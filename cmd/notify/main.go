package main

import "github.com/llehouerou/notify/cmd/notify/cmd"

func main() {
	cmd.Execute()
}
