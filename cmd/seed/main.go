// Command seed creates the initial user accounts from a YAML file.
//
//	go run ./cmd/seed -file seeds/users.yaml [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/lthoa462/homework/config"
	"github.com/lthoa462/homework/services"
	"github.com/lthoa462/homework/utils"
)

type seedFile struct {
	Users []services.CreateUserInput `yaml:"users"`
}

func loadSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Users) == 0 {
		return nil, fmt.Errorf("%s: no users", path)
	}
	return &f, nil
}

// validate runs the same checks Create does without touching the database.
func validate(f *seedFile) error {
	for i, u := range f.Users {
		if _, err := services.NewUserFromInput(u); err != nil {
			return fmt.Errorf("user #%d (%q): %w", i+1, u.Username, err)
		}
	}
	return nil
}

func main() {
	file := flag.String("file", "seeds/users.yaml", "YAML file with a top-level users list")
	dryRun := flag.Bool("dry-run", false, "validate the file without writing")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}

	f, err := loadSeedFile(*file)
	if err != nil {
		log.Fatal(err)
	}
	if err := validate(f); err != nil {
		log.Fatal(err)
	}
	if *dryRun {
		log.Printf("%d user hợp lệ, không ghi gì (dry-run)", len(f.Users))
		return
	}

	db, err := config.OpenDB(config.DatabaseURLFromEnv())
	if err != nil {
		log.Fatal("Không thể kết nối database: ", err)
	}
	users := services.NewUserService(db)

	ctx := context.Background()
	created, skipped := 0, 0
	for _, in := range f.Users {
		u, err := users.Create(ctx, in)
		switch {
		case err == nil:
			created++
			log.Printf("Đã tạo %s (%s)", u.Username, u.Role)
		case utils.IsKind(err, utils.KindConflict):
			skipped++
			log.Printf("Bỏ qua %s: đã tồn tại", in.Username)
		default:
			log.Fatalf("Tạo %s lỗi: %v", in.Username, err)
		}
	}
	log.Printf("Xong: tạo %d, bỏ qua %d", created, skipped)
}
