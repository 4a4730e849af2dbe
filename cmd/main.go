package main

import (
	"go.uber.org/fx"

	"esign-composer/internal/service"
)

func main() {
	fx.New(service.Modules()).Run()
}
