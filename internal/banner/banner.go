// Package banner prints the startup summary: a readiness checklist for
// encryption, API keys, and the transformation pipeline.
package banner

import (
	"fmt"

	"messagebridge/internal/config"
)

const art = `
 __  __                                  ____       _     _
|  \/  | ___  ___ ___  __ _  __ _  ___  | __ ) _ __(_) __| | __ _  ___
| |\/| |/ _ \/ __/ __|/ _` + "`" + ` |/ _` + "`" + ` |/ _ \ |  _ \| '__| |/ _` + "`" + ` |/ _` + "`" + ` |/ _ \
| |  | |  __/\__ \__ \ (_| | (_| |  __/ | |_) | |  | | (_| | (_| |  __/
|_|  |_|\___||___/___/\__,_|\__, |\___| |____/|_|  |_|\__,_|\__, |\___|
                             |___/                            |___/
`

// Print writes the startup banner and a readiness checklist to stdout.
func Print(cfg *config.Config, version string) {
	fmt.Print(art)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:      %s\n", cfg.Addr())
	if version != "" {
		fmt.Printf("Version:     %s\n", version)
	}
	fmt.Printf("Broker:      %s (vpn=%s)\n", cfg.Broker.Host, cfg.Broker.VPN)
	fmt.Printf("Store:       %s (container=%s)\n", cfg.Store.ConnectionString, cfg.Store.Container)

	fmt.Println("\n== Readiness ==================================================")
	if cfg.Encryption.Enabled {
		if cfg.Encryption.Local {
			fmt.Println("- Encryption: enabled (local master key)")
		} else {
			fmt.Println("- Encryption: enabled (remote key service)")
		}
	} else {
		fmt.Println("- Encryption: DISABLED — stored payloads are plaintext")
	}
	if len(cfg.Security.APIKeys) > 0 {
		fmt.Printf("- API keys:  OK (%d configured)\n", len(cfg.Security.APIKeys))
	} else {
		fmt.Println("- API keys:  MISSING — every request except GET /healthz and CORS preflight will be rejected")
	}
	if cfg.Transformation.Enabled {
		fmt.Printf("- Transformation pipeline: enabled (input=%s, output=%s)\n", cfg.Transformation.InputQueue, cfg.Transformation.OutputQueue)
	} else {
		fmt.Println("- Transformation pipeline: disabled")
	}

	fmt.Println("\n== Endpoints ===================================================")
	fmt.Println("POST /api/messages          - send a message")
	fmt.Println("POST /api/storage/messages/{id}/republish")
	fmt.Println("GET  /api/storage/messages/{id}")
	fmt.Println("GET  /api/exclusions/rules, POST /api/exclusions/test")
	fmt.Println("GET  /healthz, GET /metrics")
	fmt.Println()
}
