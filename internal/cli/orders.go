package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/orderproc/internal/app"
	"github.com/vladislavdragonenkov/orderproc/internal/domain"
)

var errOrdersNotPersisted = errors.New(
	"memory storage does not persist between runs; set --memory-snapshot (OMS_MEMORY_SNAPSHOT) or use postgres|redis")

func newProcessCmd(opts *rootOptions) *cobra.Command {
	var order domain.Order

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Validate and store an order",
		Long:  "Validate an order and save it through the configured repository. A failed save is reported as a status, not as an error.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd, func(rt *app.Runtime) error {
				status, err := rt.Service.ProcessOrder(&order)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), status)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&order.ID, "id", 0, "Order ID")
	cmd.Flags().StringVar(&order.ProductName, "product", "", "Product name")
	cmd.Flags().Int64Var(&order.Quantity, "quantity", 0, "Quantity")
	cmd.Flags().Float64Var(&order.UnitPrice, "unit-price", 0, "Unit price")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newTotalCmd(opts *rootOptions) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "total",
		Short: "Calculate the total price of a stored order",
		Long: "Calculate the total price of an order saved by an earlier run. " +
			"Requires postgres or redis storage, or memory storage with --memory-snapshot.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd, func(rt *app.Runtime) error {
				if !rt.Config().PersistsOrders() {
					return errOrdersNotPersisted
				}
				total, err := rt.Service.CalculateTotal(id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(total, 'f', -1, 64))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Order ID")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
