// internal/cli/ask.go
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"monday-bi-agent/internal/agent"
	"monday-bi-agent/internal/common/config"
)

var (
	askDealsBoard      string
	askWorkOrdersBoard string
)

var askCmd = &cobra.Command{
	Use:   "ask \"question\"",
	Short: "Answer one question and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "" {
			return fmt.Errorf("question must not be empty")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a := newApp(cfg)
		defer a.close()

		result, err := a.agent.ProcessQuery(cmd.Context(), &agent.Input{
			Question: args[0],
			Overrides: config.Overrides{
				DealsBoardID:      askDealsBoard,
				WorkOrdersBoardID: askWorkOrdersBoard,
			},
		})
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askDealsBoard, "deals-board", "", "deals board id (overrides DEALS_BOARD_ID)")
	askCmd.Flags().StringVar(&askWorkOrdersBoard, "work-orders-board", "", "work-orders board id (overrides WORK_ORDERS_BOARD_ID)")
}
