package main

import (
	"context"

	"github.com/corray333/backend-labs/shop/internal/app"
	"github.com/corray333/backend-labs/shop/internal/config"
)

func main() {
	cfg := config.MustLoad()
	app.MustNewApp(context.Background(), cfg).Run()
}
