package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# tradehabit Configuration

[tagging]
# Minimum acceptable profit-to-risk ratio (needs a known stop distance)
min_risk_reward = 1.2
# Minutes a losing trade may be held before it counts as held too long
loss_hold_minutes = 90
# Winning trades exited under this many minutes may count as premature
premature_exit_minutes = 8
# Multiple of the running average loss beyond which a stop counts as missed
stop_tolerance = 1.3
# Entries before this time count as chased (HH:MM, exchange time)
entry_cutoff = "09:20"
# Minutes after a loss within which a same-direction loss counts as revenge
revenge_window_minutes = 15
# Trades per day beyond which trips count as overtrading
overtrade_count = 5
# Trading capital in INR, used to approximate per-trade risk caps
capital = 100000.0
# Per-trade risk cap as a percentage of capital
capital_risk_percent = 1.0
# Per-trade risk cap as a multiple of the running average loss
size_loss_multiple = 2.0

[plan_match]
# Allowed entry price deviation between plan and execution, in percent
price_tolerance_percent = 0.5

[storage]
# SQLite database path (empty uses the config directory)
db_path = ""
`

// createTemplateConfig writes a commented default config.toml on first run.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
