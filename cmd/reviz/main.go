// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/reviz/cmd/reviz/cmd"
)

func main() {
	cmd.Execute()
}
