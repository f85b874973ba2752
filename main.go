package main

import "github.com/alexiusacademia/beamreport/cmd"

func main() {
	cmd.Execute()
}
