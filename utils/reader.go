package utils

import (
	"bufio"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/go-ini/ini"
)

// Get the path to the Home Directory, irrespective of underlying operating system
func HomeDir() (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		return "", err
	}
	return currentUser.HomeDir, nil
}

// Struct representing the contents of a config file as a
//
//	Profile.Name
//
// and the Keys and values in a map,
//
//	Profile.Map
type Profile struct {
	Name string
	Map  map[string]string
}

// Get returns the first non-empty value among `keys`.
func (p *Profile) Get(keys ...string) string {
	if p == nil {
		return ""
	}
	for _, key := range keys {
		if v := strings.TrimSpace(p.Map[key]); v != "" {
			return v
		}
	}
	return ""
}

// Function to read an .ini file and return every section as a `Profile`.
//
// Section names of the form `profile foo` (as used by `config` files) are reported as `foo`.
func ReadIniFile(filename string) ([]*Profile, error) {
	cfg, err := ini.Load(filename)
	if err != nil {
		return nil, fmt.Errorf("load ini file %s: %w", filename, err)
	}

	profiles := make([]*Profile, 0, len(cfg.Sections()))
	for _, section := range cfg.Sections() {
		name := strings.TrimSpace(strings.TrimPrefix(section.Name(), "profile "))
		sectionMap := make(map[string]string)
		for _, key := range section.Keys() {
			sectionMap[strings.ToLower(key.Name())] = key.String()
		}
		profiles = append(profiles, &Profile{Name: name, Map: sectionMap})
	}
	return profiles, nil
}

// Function to read .env file and return a `Profile`
func ReadEnvFile(filename string) (*Profile, error) {
	profile := Profile{
		Name: "default",
		Map:  make(map[string]string),
	}

	file, err := os.Open(filename)
	if err != nil {
		return &profile, err
	}
	defer file.Close()

	// Read lines from the file
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.ToLower(strings.TrimSpace(parts[0]))
			value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
			profile.Map[key] = value
		}
	}
	err = scanner.Err()
	return &profile, err
}
