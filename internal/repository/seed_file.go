package repository

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Tickets    []ticketRecord   `yaml:"tickets"`
	Users      []userRecord     `yaml:"users"`
	Companies  []companyRecord  `yaml:"companies"`
	Categories []categoryRecord `yaml:"categories"`
}

// LoadSeedFile reads a YAML fixture file and overlays every collection it defines onto base.
// Collections absent from the file keep the base data.
func LoadSeedFile(path string, base Seed) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file %s: %w", path, err)
	}
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Seed{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	seed := base
	if file.Tickets != nil {
		seed.Tickets = decodeTickets(file.Tickets)
	}
	if file.Users != nil {
		seed.Users = decodeUsers(file.Users)
	}
	if file.Companies != nil {
		seed.Companies = decodeCompanies(file.Companies)
	}
	if file.Categories != nil {
		seed.Categories = decodeCategories(file.Categories)
	}
	return seed, nil
}
