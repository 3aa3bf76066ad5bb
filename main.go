package main

import "github.com/frahmantamala/payment-integration/cmd"

func main() {
	cmd.Execute()
}
