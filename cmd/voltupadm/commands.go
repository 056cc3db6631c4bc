package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/voltup/voltup-console/internal/model"
	"github.com/voltup/voltup-console/internal/validation"
)

// newRootCmd собирает дерево команд консоли.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "voltupadm",
		Short:         "VoltUp points platform admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newBudgetCmd(),
		newProductsCmd(),
		newOrdersCmd(),
		newRouletteCmd(),
	)

	return root
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <nickname>",
		Short: "Sign in with a login id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			sess, err := a.auth.Login(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("signed in as %s (user %s)\n", sess.Nickname, sess.UserID)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			if err := a.auth.Logout(); err != nil {
				return err
			}

			fmt.Println("signed out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			sess, ok := a.store.Current()
			if !ok {
				fmt.Println("not signed in")
				return nil
			}

			fmt.Printf("%s (user %s)\n", sess.Nickname, sess.UserID)
			return nil
		},
	}
}

func newBudgetCmd() *cobra.Command {
	budget := &cobra.Command{
		Use:   "budget",
		Short: "Inspect and adjust the daily point budget",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show today's budget ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			b, err := a.admin.Budget(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "date\t%s\n", b.BudgetDate)
			fmt.Fprintf(w, "granted today\t%d P\n", b.TotalGranted)
			fmt.Fprintf(w, "remaining\t%d P\n", b.Remaining)
			fmt.Fprintf(w, "total limit\t%d P\n", b.TotalLimit)
			fmt.Fprintf(w, "participants\t%d\n", b.ParticipantCount)
			return w.Flush()
		},
	}

	set := &cobra.Command{
		Use:   "set <remaining>",
		Short: "Set today's remaining budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remaining, err := validation.NonNegativeAmount(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			return a.admin.SetBudgetRemaining(cmd.Context(), remaining)
		},
	}

	budget.AddCommand(show, set)
	return budget
}

func newProductsCmd() *cobra.Command {
	products := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalog",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			items, err := a.admin.Products(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "id\tname\tprice\tstock")
			for _, p := range items {
				fmt.Fprintf(w, "%d\t%s\t%d P\t%d\n", p.ID, p.Name, p.PointPrice, p.Stock)
			}
			return w.Flush()
		},
	}

	var createName string
	var createPrice, createStock int64

	create := &cobra.Command{
		Use:   "create",
		Short: "Register a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			p, err := a.admin.CreateProduct(cmd.Context(), model.ProductCreate{
				Name:       createName,
				PointPrice: createPrice,
				Stock:      createStock,
			})
			if err != nil {
				return err
			}

			fmt.Printf("created product %d\n", p.ID)
			return nil
		},
	}
	create.Flags().StringVar(&createName, "name", "", "product name")
	create.Flags().Int64Var(&createPrice, "price", 0, "point price")
	create.Flags().Int64Var(&createStock, "stock", 0, "stock quantity")
	create.MarkFlagRequired("name")

	var updateName string
	var updatePrice, updateStock int64

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := validation.PositiveID(args[0])
			if err != nil {
				return err
			}

			var body model.ProductUpdate
			if cmd.Flags().Changed("name") {
				body.Name = &updateName
			}
			if cmd.Flags().Changed("price") {
				body.PointPrice = &updatePrice
			}
			if cmd.Flags().Changed("stock") {
				body.Stock = &updateStock
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			if _, err := a.admin.UpdateProduct(cmd.Context(), id, body); err != nil {
				return err
			}
			return nil
		},
	}
	update.Flags().StringVar(&updateName, "name", "", "product name")
	update.Flags().Int64Var(&updatePrice, "price", 0, "point price")
	update.Flags().Int64Var(&updateStock, "stock", 0, "stock quantity")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := validation.PositiveID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			return a.admin.DeleteProduct(cmd.Context(), id)
		},
	}

	products.AddCommand(list, create, update, del)
	return products
}

func newOrdersCmd() *cobra.Command {
	orders := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and cancel orders",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			items, err := a.admin.Orders(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "id\tuser\tproduct\tqty\tordered at")
			for _, o := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
					o.OrderID, o.Nickname, o.ProductName, o.Quantity,
					o.OrderedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an order, refunding points and restoring stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := validation.PositiveID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			return a.admin.CancelOrder(cmd.Context(), id)
		},
	}

	orders.AddCommand(list, cancel)
	return orders
}

func newRouletteCmd() *cobra.Command {
	roulette := &cobra.Command{
		Use:   "roulette",
		Short: "Review and cancel roulette point grants",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List roulette participations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			items, err := a.admin.RouletteParticipations(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "id\tuser\tgranted\tparticipated at")
			for _, p := range items {
				fmt.Fprintf(w, "%d\t%s\t%d P\t%s\n",
					p.ParticipationID, p.Nickname, p.GrantedPoint,
					p.ParticipatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a participation, reclaiming granted points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := validation.PositiveID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			return a.admin.CancelParticipation(cmd.Context(), id)
		},
	}

	roulette.AddCommand(list, cancel)
	return roulette
}
