package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	"giftcard-store/internal/cart"
	"giftcard-store/internal/checkout"
	"giftcard-store/internal/client"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const usage = `usage: shop <command> [args]

catalog:
  products [-category c] [-q text] [-limit n] [-offset n]
  product <id>
  categories

cart:
  cart show
  cart add <id> [qty]
  cart update <id> <qty>
  cart remove <id>
  cart clear

account:
  signup -email e -password p [-first f] [-last l]
  login -email e -password p
  logout
  profile
  orders
  checkout [-email e] [-method card|paypal|wallet]
`

var errUsage = errors.New("invalid usage")

type app struct {
	out     io.Writer
	api     *client.Client
	cart    *cart.Container
	session *sessionFile
	logger  zerolog.Logger
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "products":
		return a.products(ctx, rest)
	case "product":
		return a.product(ctx, rest)
	case "categories":
		return a.categories(ctx)
	case "cart":
		return a.cartCmd(ctx, rest)
	case "signup":
		return a.signup(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "profile":
		return a.profile(ctx)
	case "orders":
		return a.orders(ctx)
	case "checkout":
		return a.checkout(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var q client.ProductQuery
	fs.StringVar(&q.Category, "category", "", "category key")
	fs.StringVar(&q.Query, "q", "", "search text")
	fs.IntVar(&q.Limit, "limit", 20, "page size")
	fs.IntVar(&q.Offset, "offset", 0, "page offset")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	page, err := a.api.ListProducts(ctx, q)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, p := range page.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\n", p.ID, p.Name, p.Category, p.Price().StringFixed(2), p.Currency)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d of %d products\n", len(page.Results), page.Total)
	return nil
}

func (a *app) product(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: product <id>", errUsage)
	}
	p, err := a.api.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n  id:       %s\n  sku:      %s\n  category: %s\n  price:    %s %s\n",
		p.Name, p.ID, p.SKU, p.Category, p.Price().StringFixed(2), p.Currency)
	if p.Description != "" {
		fmt.Fprintf(a.out, "  %s\n", p.Description)
	}
	return nil
}

func (a *app) categories(ctx context.Context) error {
	list, err := a.api.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range list {
		fmt.Fprintf(a.out, "%-12s %s\n", c.Key, c.Name)
	}
	return nil
}

func (a *app) cartCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.printCart(a.cart.State())
	}
	switch args[0] {
	case "show":
		return a.printCart(a.cart.State())
	case "add":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("%w: cart add <id> [qty]", errUsage)
		}
		qty := 1
		if len(args) == 3 {
			qty = cart.ParseQuantity(args[2])
		}
		p, err := a.api.GetProduct(ctx, args[1])
		if err != nil {
			return fmt.Errorf("resolve product %s: %w", args[1], err)
		}
		return a.printCart(a.cart.Dispatch(cart.AddItem(p.CartProduct(), qty)))
	case "update":
		if len(args) != 3 {
			return fmt.Errorf("%w: cart update <id> <qty>", errUsage)
		}
		return a.printCart(a.cart.Dispatch(cart.UpdateQuantity(args[1], cart.ParseQuantity(args[2]))))
	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("%w: cart remove <id>", errUsage)
		}
		return a.printCart(a.cart.Dispatch(cart.RemoveItem(args[1])))
	case "clear":
		return a.printCart(a.cart.Dispatch(cart.ClearCart()))
	default:
		return fmt.Errorf("%w: unknown cart command %q", errUsage, args[0])
	}
}

func (a *app) printCart(s cart.State) error {
	if s.Empty() {
		fmt.Fprintln(a.out, "cart is empty")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, it := range s.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", it.ID, it.Name, it.Quantity, it.Price.StringFixed(2), it.Subtotal().StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "items: %d  total: %s\n", s.ItemCount, s.Total.StringFixed(2))
	return nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var in client.SignupRequest
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	if err := fs.Parse(args); err != nil || in.Email == "" || in.Password == "" {
		return fmt.Errorf("%w: signup -email e -password p", errUsage)
	}
	c, err := a.api.Signup(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "account created for %s, run `shop login` to sign in\n", c.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil || *email == "" || *password == "" {
		return fmt.Errorf("%w: login -email e -password p", errUsage)
	}
	sess, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	stored := session{AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken, Email: *email}
	if sess.Customer != nil {
		stored.Email = sess.Customer.Email
	}
	if err := a.session.Save(stored); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Fprintf(a.out, "logged in as %s\n", stored.Email)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	sess, ok, err := a.session.Load()
	if err != nil {
		return err
	}
	if ok && sess.RefreshToken != "" {
		if err := a.api.Logout(ctx, sess.RefreshToken); err != nil {
			a.logger.Warn().Err(err).Msg("revoke refresh token")
		}
	}
	if err := a.session.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

// authed runs fn with a bearer client. A 401 triggers one refresh and retry.
func (a *app) authed(ctx context.Context, fn func(*client.Client) error) error {
	sess, ok, err := a.session.Load()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("not logged in, run `shop login` first")
	}
	err = fn(a.api.WithToken(sess.AccessToken))
	if !client.IsStatus(err, http.StatusUnauthorized) || sess.RefreshToken == "" {
		return err
	}

	access, rerr := a.api.Refresh(ctx, sess.RefreshToken)
	if rerr != nil {
		a.logger.Debug().Err(rerr).Msg("refresh access token")
		return errors.New("session expired, run `shop login` again")
	}
	sess.AccessToken = access
	if err := a.session.Save(sess); err != nil {
		a.logger.Warn().Err(err).Msg("save refreshed session")
	}
	return fn(a.api.WithToken(access))
}

func (a *app) profile(ctx context.Context) error {
	return a.authed(ctx, func(api *client.Client) error {
		me, err := api.Me(ctx)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(me.FirstName + " " + me.LastName)
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(a.out, "email: %s\nname:  %s\nid:    %s\n", me.Email, name, me.ID)
		return nil
	})
}

func (a *app) orders(ctx context.Context) error {
	return a.authed(ctx, func(api *client.Client) error {
		orders, err := api.ListOrders(ctx)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Fprintln(a.out, "no orders yet")
			return nil
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ORDER\tDATE\tITEMS\tTOTAL\tSTATUS")
		for _, o := range orders {
			count := 0
			for _, l := range o.Items {
				count += l.Quantity
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s %s\t%s\n", o.ID, o.CreatedAt.Format("2006-01-02"), count, o.Total().StringFixed(2), o.Currency, o.Status)
		}
		return tw.Flush()
	})
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var in checkout.Input
	fs.StringVar(&in.Email, "email", "", "receipt email (defaults to the account email)")
	fs.StringVar(&in.Method, "method", "card", "payment method")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return a.authed(ctx, func(api *client.Client) error {
		s := &checkout.Submitter{Cart: a.cart, Payments: api, Logger: a.logger}
		receipt, err := s.Submit(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "order %s placed, paid %s %s\n", receipt.OrderID, decimal.New(receipt.AmountCents, -2).StringFixed(2), receipt.Currency)
		return nil
	})
}
