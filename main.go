package main

import "github.com/Felippe-Pires/CategoricalDatasets/cmd"

func main() {
	cmd.Execute()
}
