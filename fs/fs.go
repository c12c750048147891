// Package appfs embeds the assets the app needs at runtime:
// goose migrations and email templates.
package appfs

import "embed"

//go:embed migrations templates templates/email/_base.gohtml templates/email/_base.txt
var FS embed.FS
