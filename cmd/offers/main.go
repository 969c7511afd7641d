// Package main is the entry point for the offers CLI client.
package main

import (
	"github.com/ambiyansyah-risyal/offerskit/cmd/offers/cmd"
)

func main() {
	cmd.Execute()
}
