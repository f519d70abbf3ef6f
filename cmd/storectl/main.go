package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/productstore/store-api/internal/core/domain"
	"github.com/productstore/store-api/internal/client"
	"github.com/productstore/store-api/pkg/logger"
)

const requestTimeout = 15 * time.Second

func main() {
	log := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Pretty: true, Output: os.Stderr})

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			usage(os.Stderr)
			os.Exit(2)
		}
		log.Error().Err(err).Str("command", os.Args[1]).Msg("command failed")
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

// app bundles what every subcommand needs.
type app struct {
	client *client.Client
	store  client.SessionStore
	out    io.Writer
}

func run(cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	server := fs.String("server", envOr("STORE_API_URL", "http://localhost:8080"), "API base URL")
	sessionPath := fs.String("session", client.DefaultSessionPath(), "path to the stored session")

	// ---- per-command flags ----
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	role := fs.String("role", string(domain.RoleUser), "role: admin, manager or user")
	id := fs.String("id", "", "product id")
	name := fs.String("name", "", "product name")
	category := fs.String("category", "", "product category")
	price := fs.String("price", "", "product price")
	stock := fs.String("stock", "", "units in stock")
	description := fs.String("description", "", "product description")
	image := fs.String("image", "", "image path, e.g. /photo/apples.jpg")
	items := fs.String("items", "", "order lines as product_id:quantity[,product_id:quantity...]")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	store := client.NewFileSessionStore(*sessionPath)
	session, err := store.Load()
	if err != nil {
		return err
	}
	a := &app{
		client: client.New(*server, client.WithSession(session)),
		store:  store,
		out:    out,
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	set := flagsSet(fs)

	switch cmd {
	case "register":
		return a.register(ctx, *username, *password, domain.Role(*role))
	case "login":
		return a.login(ctx, *username, *password)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami()
	case "products":
		return a.products(ctx)
	case "product-add":
		in, err := productInput(*name, *category, *price, *stock, *description, *image)
		if err != nil {
			return err
		}
		return a.productAdd(ctx, in)
	case "product-update":
		upd, err := productUpdate(set, *name, *category, *price, *stock, *description, *image)
		if err != nil {
			return err
		}
		return a.productUpdate(ctx, *id, upd)
	case "product-delete":
		return a.productDelete(ctx, *id)
	case "orders":
		return a.orders(ctx)
	case "order-create":
		lines, err := parseLines(*items)
		if err != nil {
			return err
		}
		return a.orderCreate(ctx, lines)
	default:
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `storectl commands:

  register       --username alice --password secret [--role user|manager|admin]
  login          --username alice --password secret
  logout
  whoami
  products
  product-add    --name Apples --price 2.5 --stock 10 [--category Fruit --description ... --image /photo/a.jpg]
  product-update --id <ID> [--name ... --price ... --stock ... --category ... --description ... --image ...]
  product-delete --id <ID>
  orders
  order-create   --items p1:2,p2:1

Every command accepts --server (default $STORE_API_URL or http://localhost:8080)
and --session (default ~/.storectl/session.json).
`)
}

// ============ Commands ============

func (a *app) register(ctx context.Context, username, password string, role domain.Role) error {
	u, err := a.client.Register(ctx, username, password, role)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered %s (%s); log in to start a session\n", u.Username, u.Role)
	return nil
}

// login persists the new session only once the server accepted the credentials.
func (a *app) login(ctx context.Context, username, password string) error {
	s, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := a.store.Save(s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s (%s)\n", s.Username, s.Role)
	return nil
}

func (a *app) logout() error {
	a.client.Logout()
	if err := a.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *app) whoami() error {
	s := a.client.Session()
	if !s.Active() {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "USER\tROLE\tMAY\n")
	fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Username, s.Role, strings.Join(allowedOps(s), ", "))
	return tw.Flush()
}

func (a *app) products(ctx context.Context) error {
	products, err := a.client.ListProducts(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tIMAGE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%s\n", p.ID, p.Name, p.Category, p.Price, p.Stock, p.Image)
	}
	return tw.Flush()
}

func (a *app) productAdd(ctx context.Context, in client.ProductInput) error {
	p, err := a.client.CreateProduct(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created product %s (%s)\n", p.ID, p.Name)
	return nil
}

func (a *app) productUpdate(ctx context.Context, id string, upd client.ProductUpdate) error {
	if id == "" {
		return errors.New("--id is required")
	}
	p, err := a.client.UpdateProduct(ctx, id, upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "updated product %s: %s, %.2f, %d in stock\n", p.ID, p.Name, p.Price, p.Stock)
	return nil
}

func (a *app) productDelete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("--id is required")
	}
	if err := a.client.DeleteProduct(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted product %s\n", id)
	return nil
}

func (a *app) orders(ctx context.Context) error {
	orders, err := a.client.ListOrders(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPURCHASER\tSTATUS\tITEMS\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.Purchaser, o.Status, formatLines(o.Items), o.CreatedAt.Format(time.DateTime))
	}
	return tw.Flush()
}

func (a *app) orderCreate(ctx context.Context, lines []client.OrderLine) error {
	o, err := a.client.CreateOrder(ctx, lines)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created order %s for %s (%s)\n", o.ID, o.Purchaser, o.Status)
	return nil
}

// ============ Helper Functions ============

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// flagsSet returns the names of flags given on the command line.
func flagsSet(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func allowedOps(s client.Session) []string {
	ops := []domain.Operation{
		domain.OpListProducts, domain.OpCreateProduct, domain.OpUpdateProduct,
		domain.OpDeleteProduct, domain.OpListOrders, domain.OpCreateOrder, domain.OpListAllOrders,
	}
	var out []string
	for _, op := range ops {
		if s.Can(op) {
			out = append(out, string(op))
		}
	}
	return out
}

func productInput(name, category, price, stock, description, image string) (client.ProductInput, error) {
	if name == "" {
		return client.ProductInput{}, errors.New("--name is required")
	}
	in := client.ProductInput{Name: name, Category: category, Description: description, Image: image}
	var err error
	if price != "" {
		if in.Price, err = strconv.ParseFloat(price, 64); err != nil {
			return in, fmt.Errorf("--price: %w", err)
		}
	}
	if stock != "" {
		if in.Stock, err = strconv.Atoi(stock); err != nil {
			return in, fmt.Errorf("--stock: %w", err)
		}
	}
	return in, nil
}

// productUpdate only carries the flags the user actually passed, so an update
// never overwrites fields it did not mention.
func productUpdate(set map[string]bool, name, category, price, stock, description, image string) (client.ProductUpdate, error) {
	var upd client.ProductUpdate
	if set["name"] {
		upd.Name = &name
	}
	if set["category"] {
		upd.Category = &category
	}
	if set["description"] {
		upd.Description = &description
	}
	if set["image"] {
		upd.Image = &image
	}
	if set["price"] {
		v, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return upd, fmt.Errorf("--price: %w", err)
		}
		upd.Price = &v
	}
	if set["stock"] {
		v, err := strconv.Atoi(stock)
		if err != nil {
			return upd, fmt.Errorf("--stock: %w", err)
		}
		upd.Stock = &v
	}
	return upd, nil
}

func parseLines(raw string) ([]client.OrderLine, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("--items is required")
	}
	var lines []client.OrderLine
	for _, part := range strings.Split(raw, ",") {
		productID, qty, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			qty = "1"
		}
		n, err := strconv.Atoi(qty)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid quantity in %q", part)
		}
		lines = append(lines, client.OrderLine{ProductID: productID, Quantity: n})
	}
	return lines, nil
}

func formatLines(items []domain.LineItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.ProductID + "x" + strconv.Itoa(it.Quantity)
	}
	return strings.Join(parts, " ")
}
