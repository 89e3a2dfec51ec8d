package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"redstore/internal/api"
	"redstore/internal/config"
	"redstore/internal/domain"
	"redstore/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[storefront] ", log.LstdFlags)

	sess, err := session.New(cfg.APIBaseURL, cfg.CredentialsFile, logger)
	if err != nil {
		logger.Fatalf("init session: %v", err)
	}

	ctx := context.Background()
	if err := sess.Resume(ctx); err != nil {
		logger.Printf("resume session: %v", err)
	}

	app := &app{cfg: cfg, sess: sess, out: os.Stdout, in: bufio.NewScanner(os.Stdin)}
	app.run(ctx)
}

type app struct {
	cfg  config.Config
	sess *session.Session
	out  *os.File
	in   *bufio.Scanner

	products []domain.Product
	lines    []domain.CartItem
	badge    int
}

func (a *app) run(ctx context.Context) {
	fmt.Fprintf(a.out, "%s storefront. Type 'help' for commands.\n", a.cfg.AppTitle)
	if a.sess.LoggedIn() {
		a.attachBadge(ctx)
		fmt.Fprintf(a.out, "signed in as %s\n", a.sess.User().DisplayName())
	}

	for {
		fmt.Fprintf(a.out, "%s> ", a.prompt())
		if !a.in.Scan() {
			return
		}
		fields := strings.Fields(a.in.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "help":
			a.help()
		case "products":
			a.listProducts(ctx)
		case "add":
			a.addToCart(ctx, args)
		case "cart":
			a.showCart(ctx)
		case "inc":
			a.increase(ctx, args)
		case "dec":
			a.decrease(ctx, args)
		case "rm":
			a.remove(ctx, args)
		case "checkout":
			a.checkout(ctx)
		case "login":
			a.login(ctx, args)
		case "signup":
			a.signup(ctx, args)
		case "logout":
			a.logout()
		case "whoami":
			fmt.Fprintf(a.out, "%s\n", a.sess.User().DisplayName())
		case "product-add":
			a.productAdd(ctx)
		case "product-edit":
			a.productEdit(ctx, args)
		case "product-rm":
			a.productRemove(ctx, args)
		case "quit", "exit":
			return
		default:
			fmt.Fprintf(a.out, "unknown command %q, try 'help'\n", cmd)
		}
	}
}

func (a *app) prompt() string {
	if a.badge > 0 {
		return fmt.Sprintf("redstore [cart:%d]", a.badge)
	}
	return "redstore"
}

func (a *app) help() {
	fmt.Fprintln(a.out, `commands:
  products             list the catalog
  add <n>              add product n to the cart
  cart                 show the cart and totals
  inc <n> / dec <n>    change quantity of cart line n
  rm <n>               remove cart line n (asks for confirmation)
  checkout             create the sales order PDF
  login <email>        sign in (prompts for password)
  signup <email>       register (prompts for password and name)
  logout / whoami
  product-add          admin: create a product
  product-edit <n>     admin: update price and stock of product n
  product-rm <n>       admin: delete product n
  quit`)
}

// attachBadge subscribes the badge "view" to cart-update broadcasts. Any
// command that changes the cart refreshes the count shown in the prompt
// without the command knowing about the badge.
func (a *app) attachBadge(ctx context.Context) {
	refresh := func() {
		count, err := a.sess.Client().CartCount(ctx)
		if err != nil {
			return
		}
		a.badge = count
	}
	a.sess.OnCartUpdated(refresh)
	refresh()
}

func (a *app) alert(err error) {
	switch {
	case errors.Is(err, domain.ErrAuth):
		fmt.Fprintln(a.out, "!! please sign in first (login <email>)")
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrMutation):
		fmt.Fprintf(a.out, "!! %v\n", err)
	default:
		fmt.Fprintf(a.out, "!! request failed: %v\n", err)
	}
}

func (a *app) listProducts(ctx context.Context) {
	products, err := a.sess.Client().ListProducts(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "could not load products: %v\n", err)
		return
	}
	a.products = products
	for i, p := range products {
		status := fmt.Sprintf("stock %d", p.Stock)
		if !p.InStock() {
			status = "out of stock"
		}
		fmt.Fprintf(a.out, "%2d. %-30s %10s  (%s)\n", i+1, p.Name, p.Price.StringFixed(2), status)
	}
}

func (a *app) pickProduct(args []string) (domain.Product, bool) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: add <n> (run 'products' first)")
		return domain.Product{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.products) {
		fmt.Fprintln(a.out, "no such product; run 'products' first")
		return domain.Product{}, false
	}
	return a.products[n-1], true
}

func (a *app) pickLine(args []string, usage string) (domain.CartItem, bool) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, usage)
		return domain.CartItem{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.lines) {
		fmt.Fprintln(a.out, "no such cart line; run 'cart' first")
		return domain.CartItem{}, false
	}
	return a.lines[n-1], true
}

func (a *app) requireLogin() bool {
	if !a.sess.LoggedIn() {
		fmt.Fprintln(a.out, "please sign in first (login <email>)")
		return false
	}
	return true
}

func (a *app) addToCart(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	product, ok := a.pickProduct(args)
	if !ok {
		return
	}
	fresh, err := a.sess.Controller().Add(ctx, product)
	if err != nil {
		a.alert(err)
		return
	}
	// Show the post-add stock so the listing stays honest.
	for i := range a.products {
		if a.products[i].ID == fresh.ID {
			a.products[i] = *fresh
		}
	}
	fmt.Fprintf(a.out, "added %s (stock now %d)\n", fresh.Name, fresh.Stock)
}

func (a *app) showCart(ctx context.Context) {
	if !a.requireLogin() {
		return
	}
	proj := a.sess.Projection()
	if err := proj.Refresh(ctx); err != nil {
		fmt.Fprintf(a.out, "could not load cart: %v\n", err)
		return
	}
	a.lines = proj.Lines()
	if proj.Empty() {
		fmt.Fprintln(a.out, "Your cart is empty")
		return
	}
	for i, item := range a.lines {
		name, price := "Product", decimal.Zero
		if item.Product != nil {
			name, price = item.Product.Name, item.Product.Price
		}
		amount := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(a.out, "%2d. %-30s %10s x%-3d %12s\n", i+1, name, price.StringFixed(2), item.Quantity, amount.StringFixed(2))
	}
	totals := proj.Totals()
	fmt.Fprintf(a.out, "    Subtotal    %12s\n", totals.Subtotal.StringFixed(2))
	fmt.Fprintf(a.out, "    VAT (7%%)    %12s\n", totals.Tax.StringFixed(2))
	fmt.Fprintf(a.out, "    Grand Total %12s\n", totals.GrandTotal.StringFixed(2))
}

func (a *app) increase(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	line, ok := a.pickLine(args, "usage: inc <n>")
	if !ok {
		return
	}
	if err := a.sess.Controller().Increase(ctx, line.ProductID); err != nil {
		a.alert(err)
		return
	}
	a.showLines()
}

func (a *app) decrease(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	line, ok := a.pickLine(args, "usage: dec <n>")
	if !ok {
		return
	}
	if err := a.sess.Controller().Decrease(ctx, line.ID); err != nil {
		a.alert(err)
		return
	}
	a.showLines()
}

func (a *app) remove(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	line, ok := a.pickLine(args, "usage: rm <n>")
	if !ok {
		return
	}
	confirm := func() bool {
		fmt.Fprint(a.out, "Are you sure you want to remove this item? [y/N] ")
		if !a.in.Scan() {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(a.in.Text()), "y")
	}
	if err := a.sess.Controller().Remove(ctx, line.ID, confirm); err != nil {
		a.alert(err)
		return
	}
	a.showLines()
}

func (a *app) showLines() {
	a.lines = a.sess.Projection().Lines()
	fmt.Fprintf(a.out, "cart has %d line(s), %d item(s)\n", len(a.lines), a.sess.Projection().ItemCount())
}

func (a *app) checkout(ctx context.Context) {
	if !a.requireLogin() {
		return
	}
	proj := a.sess.Projection()
	if err := proj.Refresh(ctx); err != nil {
		fmt.Fprintf(a.out, "could not load cart: %v\n", err)
		return
	}
	if proj.Empty() {
		fmt.Fprintln(a.out, "Your cart is empty")
		return
	}
	doc, err := a.sess.Controller().Checkout(ctx, a.sess.User())
	if err != nil {
		a.alert(err)
		return
	}
	path, err := doc.Save(a.cfg.OrderOutputDir)
	if err != nil {
		fmt.Fprintf(a.out, "order %s created, but saving the PDF failed: %v\n", doc.OrderNumber, err)
		return
	}
	a.lines = nil
	fmt.Fprintf(a.out, "Sales order %s created: %s\n", doc.OrderNumber, path)
}

func (a *app) promptLine(label string) string {
	fmt.Fprintf(a.out, "%s: ", label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) login(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: login <email>")
		return
	}
	password := a.promptLine("password")
	user, err := a.sess.Login(ctx, args[0], password)
	if err != nil {
		a.alert(err)
		return
	}
	a.attachBadge(ctx)
	fmt.Fprintf(a.out, "signed in as %s\n", user.DisplayName())
}

func (a *app) signup(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: signup <email>")
		return
	}
	password := a.promptLine("password")
	first := a.promptLine("first name")
	last := a.promptLine("last name")
	user, err := a.sess.Signup(ctx, args[0], password, first, last)
	if err != nil {
		a.alert(err)
		return
	}
	a.attachBadge(ctx)
	fmt.Fprintf(a.out, "welcome, %s\n", user.DisplayName())
}

func (a *app) logout() {
	if err := a.sess.Logout(); err != nil {
		fmt.Fprintf(a.out, "logout failed: %v\n", err)
		return
	}
	a.badge = 0
	a.lines = nil
	fmt.Fprintln(a.out, "signed out")
}

func (a *app) productAdd(ctx context.Context) {
	if !a.sess.User().IsAdmin() {
		fmt.Fprintln(a.out, "admin role required")
		return
	}
	name := a.promptLine("name")
	priceStr := a.promptLine("price")
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		fmt.Fprintf(a.out, "bad price %q\n", priceStr)
		return
	}
	stock, err := strconv.Atoi(a.promptLine("stock"))
	if err != nil {
		fmt.Fprintln(a.out, "bad stock")
		return
	}
	description := a.promptLine("description")

	p, err := a.sess.Client().CreateProduct(ctx, api.ProductInput{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
	})
	if err != nil {
		a.alert(err)
		return
	}
	fmt.Fprintf(a.out, "created %s (%s)\n", p.Name, p.ID)
}

func (a *app) productEdit(ctx context.Context, args []string) {
	if !a.sess.User().IsAdmin() {
		fmt.Fprintln(a.out, "admin role required")
		return
	}
	product, ok := a.pickProduct(args)
	if !ok {
		return
	}
	priceStr := a.promptLine(fmt.Sprintf("price [%s]", product.Price.StringFixed(2)))
	price := product.Price
	if priceStr != "" {
		parsed, err := decimal.NewFromString(priceStr)
		if err != nil {
			fmt.Fprintf(a.out, "bad price %q\n", priceStr)
			return
		}
		price = parsed
	}
	stockStr := a.promptLine(fmt.Sprintf("stock [%d]", product.Stock))
	stock := product.Stock
	if stockStr != "" {
		parsed, err := strconv.Atoi(stockStr)
		if err != nil {
			fmt.Fprintln(a.out, "bad stock")
			return
		}
		stock = parsed
	}

	updated, err := a.sess.Client().UpdateProduct(ctx, product.ID, api.ProductInput{
		Name:        product.Name,
		Description: product.Description,
		Price:       price,
		Stock:       stock,
		ImageURL:    product.ImageURL,
	})
	if err != nil {
		a.alert(err)
		return
	}
	for i := range a.products {
		if a.products[i].ID == updated.ID {
			a.products[i] = *updated
		}
	}
	fmt.Fprintf(a.out, "updated %s (price %s, stock %d)\n", updated.Name, updated.Price.StringFixed(2), updated.Stock)
}

func (a *app) productRemove(ctx context.Context, args []string) {
	if !a.sess.User().IsAdmin() {
		fmt.Fprintln(a.out, "admin role required")
		return
	}
	product, ok := a.pickProduct(args)
	if !ok {
		return
	}
	fmt.Fprintf(a.out, "Are you sure you want to delete %q? [y/N] ", product.Name)
	if !a.in.Scan() || !strings.EqualFold(strings.TrimSpace(a.in.Text()), "y") {
		return
	}
	if err := a.sess.Client().DeleteProduct(ctx, product.ID); err != nil {
		a.alert(err)
		return
	}
	fmt.Fprintf(a.out, "deleted %s\n", product.Name)
}
