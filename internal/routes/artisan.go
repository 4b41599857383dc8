package routes

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/chrisbeaver/outbound/internal/models"
)

// Artisan runs `php artisan route:list --json` in the project root and decodes its output
func Artisan(ctx context.Context, root, phpBinary string) ([]models.RouteDefinition, error) {
	if phpBinary == "" {
		phpBinary = "php"
	}

	cmd := exec.CommandContext(ctx, phpBinary, "artisan", "route:list", "--json")
	cmd.Dir = root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("artisan route:list: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return DecodeJSON(&stdout)
}
