package main

import "github.com/dhakamart/commerce/cmd"

func main() {
	cmd.Execute()
}
