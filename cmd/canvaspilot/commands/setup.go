package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/copilot"
)

// newSetupCmd creates the `canvaspilot setup` command for interactive
// configuration.
func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive setup wizard",
		Long: `Starts an interactive wizard to create your initial config.yaml.
Asks for assistant name, model, API endpoint, and the Composio key used
for Google Sheets access. API keys go to the OS keyring, never plaintext.

Examples:
  canvaspilot setup`,
		RunE: runSetup,
	}
}

func runSetup(_ *cobra.Command, _ []string) error {
	return runInteractiveSetup()
}

// runInteractiveSetup guides the user through config creation step by step.
func runInteractiveSetup() error {
	reader := bufio.NewReader(os.Stdin)
	cfg := copilot.DefaultConfig()

	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════╗")
	fmt.Println("║          CanvasPilot Setup Wizard            ║")
	fmt.Println("╚══════════════════════════════════════════════╝")
	fmt.Println()

	// Step 1: assistant name.
	fmt.Printf("1. Assistant name [%s]: ", cfg.Name)
	if name := readLine(reader); name != "" {
		cfg.Name = name
	}

	// Step 2: API endpoint.
	fmt.Println()
	fmt.Println("   API endpoint (OpenAI-compatible):")
	fmt.Println()
	fmt.Printf("2. API base URL [%s]: ", cfg.API.BaseURL)
	if url := readLine(reader); url != "" {
		cfg.API.BaseURL = url
	}

	// Step 3: LLM API key.
	fmt.Println()
	fmt.Println("   Your API key is stored in the OS keyring when available,")
	fmt.Println("   never in config.yaml.")
	fmt.Println()

	apiKey, err := copilot.ReadPassword("3. API key (hidden input): ")
	if err != nil {
		// Fallback to visible input if terminal password reading fails.
		fmt.Print("3. API key (or press Enter to skip): ")
		apiKey = readLine(reader)
	}
	llmKeyStored := storeSecret("api_key", apiKey, "CANVASPILOT_API_KEY")

	// config.yaml never contains the real key.
	cfg.API.APIKey = "${CANVASPILOT_API_KEY}"

	// Step 4: model.
	models := []struct {
		id   string
		desc string
	}{
		{"gpt-4o-mini", "fast and cheap (default)"},
		{"gpt-4o", "great all-around"},
		{"gpt-4.1", "strong tool use"},
		{"o4-mini", "reasoning on a budget"},
	}

	fmt.Println()
	fmt.Println("4. Select LLM model:")
	fmt.Println()
	for i, m := range models {
		marker := "  "
		if m.id == cfg.Model {
			marker = " *"
		}
		fmt.Printf("   %s %d) %-14s %s\n", marker, i+1, m.id, m.desc)
	}
	fmt.Println()
	fmt.Printf("   Choose [1-%d] or type model name [%s]: ", len(models), cfg.Model)
	if input := readLine(reader); input != "" {
		if num, err := strconv.Atoi(input); err == nil {
			if num >= 1 && num <= len(models) {
				cfg.Model = models[num-1].id
			} else {
				fmt.Printf("   [!] Invalid number, keeping '%s'.\n", cfg.Model)
			}
		} else {
			cfg.Model = input
		}
	}

	// Step 5: Composio key for Google Sheets.
	fmt.Println()
	fmt.Println("   Composio proxies Google Sheets access. Get a key at composio.dev,")
	fmt.Println("   then connect your Google account there.")
	fmt.Println()

	composioKey, err := copilot.ReadPassword("5. Composio API key (hidden input): ")
	if err != nil {
		fmt.Print("5. Composio API key (or press Enter to skip): ")
		composioKey = readLine(reader)
	}
	composioKeyStored := storeSecret("composio_api_key", composioKey, "COMPOSIO_API_KEY")
	cfg.Composio.APIKey = "${COMPOSIO_API_KEY}"

	fmt.Printf("   Composio user id [%s]: ", cfg.Composio.UserID)
	if uid := readLine(reader); uid != "" {
		cfg.Composio.UserID = uid
	}

	// Step 6: gateway port.
	fmt.Println()
	fmt.Printf("6. Gateway port [%d]: ", cfg.Gateway.Port)
	if p := readLine(reader); p != "" {
		if port, err := strconv.Atoi(p); err == nil && port > 0 && port < 65536 {
			cfg.Gateway.Port = port
		} else {
			fmt.Printf("   [!] Invalid port, keeping %d.\n", cfg.Gateway.Port)
		}
	}

	// Step 7: system instructions.
	fmt.Println()
	fmt.Println("   Extra system instructions appended to the built-in prompt.")
	fmt.Println("   Press Enter to skip.")
	fmt.Println()
	fmt.Print("7. Instructions [none]: ")
	if instr := readLine(reader); instr != "" {
		cfg.Instructions = instr
	}

	// Summary.
	fmt.Println()
	fmt.Println("─────────────────────────────────────────────")
	fmt.Println("  Configuration summary:")
	fmt.Println("─────────────────────────────────────────────")
	fmt.Printf("  Name:          %s\n", cfg.Name)
	fmt.Printf("  API URL:       %s\n", cfg.API.BaseURL)
	fmt.Printf("  Model:         %s\n", cfg.Model)
	if llmKeyStored {
		fmt.Println("  API key:       **** (OS keyring)")
	} else {
		fmt.Println("  API key:       (not set, configure later)")
	}
	if composioKeyStored {
		fmt.Println("  Composio key:  **** (OS keyring)")
	} else {
		fmt.Println("  Composio key:  (not set, configure later)")
	}
	fmt.Printf("  Composio user: %s\n", cfg.Composio.UserID)
	fmt.Printf("  Gateway:       %s:%d\n", cfg.Gateway.Host, cfg.Gateway.Port)
	fmt.Println("─────────────────────────────────────────────")
	fmt.Println()

	// Confirm and save.
	target := "config.yaml"
	fmt.Printf("Save to %s? (y/n) [y]: ", target)
	if confirm := readLine(reader); strings.ToLower(confirm) == "n" {
		fmt.Println("Setup cancelled.")
		return nil
	}

	if _, err := os.Stat(target); err == nil {
		fmt.Printf("File %s already exists. Overwrite? (y/n) [n]: ", target)
		if overwrite := readLine(reader); strings.ToLower(overwrite) != "y" {
			fmt.Println("Setup cancelled. Existing file kept.")
			return nil
		}
	}

	if err := copilot.SaveConfigToFile(cfg, target); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nconfig.yaml created successfully!\n\n")
	fmt.Println("Next steps:")
	fmt.Println("  1. Run: canvaspilot serve")
	fmt.Println("  2. Point the canvas client at the gateway URL")
	fmt.Println("  3. Try: canvaspilot chat \"import <your sheet URL>\"")
	fmt.Println()

	return nil
}

// storeSecret puts a key in the OS keyring, falling back to a hint about
// the environment variable when the keyring is unavailable.
func storeSecret(keyringName, value, envVar string) bool {
	if value == "" {
		fmt.Printf("   Skipped. Set it later via the %s environment variable.\n", envVar)
		return false
	}
	if copilot.KeyringAvailable() {
		if err := copilot.StoreKeyring(keyringName, value); err == nil {
			fmt.Println("   Stored in OS keyring.")
			return true
		}
	}
	fmt.Printf("   [!] OS keyring unavailable. Export %s in your shell or .env instead.\n", envVar)
	return false
}

// readLine reads a single line from the reader, trimming whitespace.
func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
