package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/wichananm65/storefront-client/internal/api"
	"github.com/wichananm65/storefront-client/internal/cart"
	"github.com/wichananm65/storefront-client/internal/catalog"
	"github.com/wichananm65/storefront-client/internal/config"
	"github.com/wichananm65/storefront-client/internal/order"
	"github.com/wichananm65/storefront-client/internal/review"
	"github.com/wichananm65/storefront-client/internal/session"
	"github.com/wichananm65/storefront-client/internal/staff"
	"github.com/wichananm65/storefront-client/internal/storage"
	"github.com/wichananm65/storefront-client/internal/wishlist"
)

const usage = `usage: shopctl <command> [args]

  login <username> <password>      authenticate and merge the guest cart
  register <username> <email> <password>
  logout                           end the session (best-effort remote)
  whoami                           show the active identity
  users                            list accounts stored on this device
  switch <username>                repoint at another stored account

  products [category]              browse the catalog
  product <id>                     show one product

  cart                             show the active cart
  cart add <productID> [qty]
  cart update <productID> <qty>
  cart remove <productID>
  cart clear
  cart sync                        merge the guest cart into the account

  wishlist                         show your saved products
  wishlist add <productID>
  wishlist remove <productID>
  wishlist clear

  reviews <productID>              list a product's reviews
  review <productID> <rating> [comment]
  review delete <reviewID>

  checkout <shipping address>      place an order from the cart
  orders                           list your orders
  order <id>                       show one order
  history                          list settled orders

  staff orders [status]            admin: list orders
  staff set-status <id> <status>   admin: move an order
`

// main wires dependencies (dependency injection) and dispatches a command.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	local, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("cannot open data dir %s: %v", cfg.DataDir, err)
	}
	tab := storage.NewMemStore()

	client := api.NewClient(cfg.APIURL, cfg.RequestTimeout)
	mgr := session.NewManager(client, local, tab)
	rec := cart.NewReconciler(client, local, mgr)
	mgr.SetCarts(rec)
	mgr.Initialize()

	ctx := context.Background()
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Print(usage)
		os.Exit(2)
	}

	switch args[0] {
	case "login":
		requireArgs(args, 3)
		u, err := mgr.Login(ctx, args[1], args[2])
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
		fmt.Printf("logged in as %s\n", u.Username)
	case "register":
		requireArgs(args, 4)
		u, err := mgr.Register(ctx, session.RegisterData{Username: args[1], Email: args[2], Password: args[3]})
		if err != nil {
			log.Fatalf("registration failed: %v", err)
		}
		fmt.Printf("registered and logged in as %s\n", u.Username)
	case "logout":
		mgr.Logout(ctx)
		fmt.Println("logged out")
	case "whoami":
		if u, ok := mgr.CurrentUser(); ok {
			fmt.Printf("%s (%s)\n", u.Username, mgr.UserType())
		} else {
			fmt.Println("guest")
		}
	case "users":
		for _, u := range mgr.StoredUsers() {
			fmt.Println(u)
		}
	case "switch":
		requireArgs(args, 2)
		if !mgr.SwitchUser(args[1]) {
			log.Fatalf("no stored session for %q", args[1])
		}
		fmt.Printf("switched to %s\n", args[1])
	case "products":
		svc := catalog.NewService(client)
		var products []catalog.Product
		var err error
		if len(args) > 1 {
			products, err = svc.ByCategory(ctx, args[1])
		} else {
			products, err = svc.Products(ctx, catalog.Query{})
		}
		if err != nil {
			log.Fatalf("cannot list products: %v", err)
		}
		for _, p := range products {
			fmt.Printf("%4d  %-28s %10.2f  stock %d\n", p.ID, p.Name, p.EffectivePrice(), p.Stock)
		}
	case "product":
		requireArgs(args, 2)
		p, err := catalog.NewService(client).ProductByID(ctx, mustAtoi(args[1]))
		if err != nil {
			log.Fatalf("cannot get product: %v", err)
		}
		fmt.Printf("%s (%s)\nprice: %.2f  stock: %d\n%s\n", p.Name, p.Category, p.EffectivePrice(), p.Stock, p.Description)
	case "cart":
		runCart(ctx, rec, args[1:])
	case "wishlist":
		runWishlist(ctx, client, args[1:])
	case "reviews":
		requireArgs(args, 2)
		reviews, err := review.NewService(client).ForProduct(ctx, mustAtoi(args[1]))
		if err != nil {
			log.Fatalf("cannot list reviews: %v", err)
		}
		for _, r := range reviews {
			fmt.Printf("%4d  %s  %d/5  %s\n", r.ID, r.Username, r.Rating, r.Comment)
		}
	case "review":
		runReview(ctx, client, args[1:])
	case "checkout":
		requireArgs(args, 2)
		address := strings.Join(args[1:], " ")
		lines := rec.Get(ctx)
		items := make([]order.CheckoutItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, order.CheckoutItem{ID: l.ID, Quantity: l.Quantity})
		}
		ord, err := order.NewService(client).Create(ctx, address, items)
		if err != nil {
			log.Fatalf("checkout failed: %v", err)
		}
		rec.Clear(ctx)
		fmt.Printf("order %d placed, total %.2f\n", ord.ID, ord.Total)
	case "orders":
		orders, err := order.NewService(client).List(ctx)
		if err != nil {
			log.Fatalf("cannot list orders: %v", err)
		}
		printOrders(orders)
	case "order":
		requireArgs(args, 2)
		ord, err := order.NewService(client).GetByID(ctx, mustAtoi(args[1]))
		if err != nil {
			log.Fatalf("cannot get order: %v", err)
		}
		fmt.Printf("order %d  %s  total %.2f\n", ord.ID, ord.Status, ord.Total)
		for _, it := range ord.Items {
			fmt.Printf("  %dx %s @ %.2f\n", it.Quantity, it.ProductName, it.Price)
		}
	case "history":
		orders, err := order.NewService(client).History(ctx)
		if err != nil {
			log.Fatalf("cannot get history: %v", err)
		}
		printOrders(orders)
	case "staff":
		runStaff(ctx, client, args[1:])
	default:
		fmt.Print(usage)
		os.Exit(2)
	}
}

func runCart(ctx context.Context, rec *cart.Reconciler, args []string) {
	if len(args) == 0 {
		lines := rec.Get(ctx)
		for _, l := range lines {
			fmt.Printf("%4d  %-28s %8.2f x%d\n", l.ID, l.Name, l.Price, l.Quantity)
		}
		fmt.Printf("total: %.2f (%d items)\n", cart.Total(lines), cart.Count(lines))
		return
	}
	switch args[0] {
	case "add":
		requireArgs(args, 2)
		qty := 1
		if len(args) > 2 {
			qty = mustAtoi(args[2])
		}
		rec.Add(ctx, cart.Line{ID: mustAtoi(args[1]), Quantity: qty})
		fmt.Println("added")
	case "update":
		requireArgs(args, 3)
		rec.UpdateQuantity(ctx, mustAtoi(args[1]), mustAtoi(args[2]))
		fmt.Println("updated")
	case "remove":
		requireArgs(args, 2)
		rec.Remove(ctx, mustAtoi(args[1]))
		fmt.Println("removed")
	case "clear":
		rec.Clear(ctx)
		fmt.Println("cleared")
	case "sync":
		lines := rec.Sync(ctx)
		fmt.Printf("synced, %d lines\n", len(lines))
	default:
		fmt.Print(usage)
		os.Exit(2)
	}
}

func runWishlist(ctx context.Context, client *api.Client, args []string) {
	svc := wishlist.NewService(client)
	printList := func(w wishlist.Wishlist) {
		for _, it := range w.Items {
			fmt.Printf("%4d  product %d  %s\n", it.ID, it.Product, it.AddedAt)
		}
		fmt.Printf("%d saved\n", len(w.Items))
	}
	if len(args) == 0 {
		w, err := svc.Get(ctx)
		if err != nil {
			log.Fatalf("cannot get wishlist: %v", err)
		}
		printList(w)
		return
	}
	switch args[0] {
	case "add":
		requireArgs(args, 2)
		w, err := svc.Add(ctx, mustAtoi(args[1]))
		if err != nil {
			log.Fatalf("cannot add to wishlist: %v", err)
		}
		printList(w)
	case "remove":
		requireArgs(args, 2)
		w, err := svc.Remove(ctx, mustAtoi(args[1]))
		if err != nil {
			log.Fatalf("cannot remove from wishlist: %v", err)
		}
		printList(w)
	case "clear":
		if _, err := svc.Clear(ctx); err != nil {
			log.Fatalf("cannot clear wishlist: %v", err)
		}
		fmt.Println("cleared")
	default:
		fmt.Print(usage)
		os.Exit(2)
	}
}

func runReview(ctx context.Context, client *api.Client, args []string) {
	svc := review.NewService(client)
	if len(args) > 1 && args[0] == "delete" {
		if err := svc.Delete(ctx, mustAtoi(args[1])); err != nil {
			log.Fatalf("cannot delete review: %v", err)
		}
		fmt.Println("deleted")
		return
	}
	requireArgs(args, 2)
	comment := ""
	if len(args) > 2 {
		comment = strings.Join(args[2:], " ")
	}
	r, err := svc.Create(ctx, mustAtoi(args[0]), mustAtoi(args[1]), comment)
	if err != nil {
		log.Fatalf("cannot post review: %v", err)
	}
	fmt.Printf("review %d posted\n", r.ID)
}

func runStaff(ctx context.Context, client *api.Client, args []string) {
	if len(args) == 0 {
		fmt.Print(usage)
		os.Exit(2)
	}
	svc := staff.NewService(client)
	switch args[0] {
	case "orders":
		q := staff.Query{}
		if len(args) > 1 {
			q.Status = order.Status(args[1])
		}
		orders, total, err := svc.Orders(ctx, q)
		if err != nil {
			log.Fatalf("cannot list staff orders: %v", err)
		}
		printOrders(orders)
		fmt.Printf("%d total\n", total)
	case "set-status":
		requireArgs(args, 3)
		ord, err := svc.UpdateStatus(ctx, mustAtoi(args[1]), order.Status(args[2]))
		if err != nil {
			log.Fatalf("cannot update order: %v", err)
		}
		fmt.Printf("order %d is now %s\n", ord.ID, ord.Status)
	default:
		fmt.Print(usage)
		os.Exit(2)
	}
}

func printOrders(orders []order.Order) {
	for _, o := range orders {
		fmt.Printf("%4d  %-11s %10.2f  %s\n", o.ID, o.Status, o.Total, o.CreatedAt)
	}
}

func requireArgs(args []string, n int) {
	if len(args) < n {
		fmt.Print(usage)
		os.Exit(2)
	}
}

func mustAtoi(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("expected a number, got %q", v)
	}
	return n
}
