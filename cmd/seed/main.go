package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/pet-adoption-api/config"
	"github.com/oksasatya/pet-adoption-api/internal/application"
	"github.com/oksasatya/pet-adoption-api/internal/container"
	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
)

var animals = []application.CreateAnimalInput{
	{Name: "Thor", Species: "Dog", Age: "2 years", Size: "Large", Temperament: "Playful and loyal", City: "Recife", Description: "Loves long walks.", History: "Rescued from the street as a puppy."},
	{Name: "Luna", Species: "Cat", Age: "1 year", Size: "Small", Temperament: "Calm", City: "Olinda", Description: "Enjoys sunny windows.", History: "Found in a box near the market."},
	{Name: "Pipoca", Species: "Dog", Age: "6 months", Size: "Small", Temperament: "Energetic", City: "Recife", Description: "Gets along with kids.", History: "Born at the shelter."},
	{Name: "Mel", Species: "Cat", Age: "4 years", Size: "Medium", Temperament: "Shy at first", City: "Jaboatao", Description: "Needs a quiet home.", History: "Surrendered by a previous owner."},
}

func main() {
	email := flag.String("email", "org@example.org", "organization account email")
	password := flag.String("password", "password123", "organization account password")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := container.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer c.Close()

	res, err := c.Auth.Register(ctx, application.RegisterInput{
		Name:     "Demo Shelter",
		Email:    *email,
		Password: *password,
		Role:     entity.RoleOrganization,
	})
	if errors.Is(err, application.ErrEmailTaken) {
		logger.WithField("email", *email).Info("organization already exists; nothing to seed")
		return
	}
	if err != nil {
		logger.Fatalf("seed organization: %v", err)
	}
	logger.WithFields(map[string]any{"id": res.User.ID, "email": res.User.Email}).Info("seeded organization")

	for _, in := range animals {
		a, err := c.Animals.Create(ctx, in)
		if err != nil {
			logger.Fatalf("seed animal %s: %v", in.Name, err)
		}
		logger.WithFields(map[string]any{"id": a.ID, "name": a.Name}).Info("seeded animal")
	}
}
