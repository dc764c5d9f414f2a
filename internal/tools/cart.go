package tools

import (
	"context"
	"fmt"
	"strings"
)

type addToCartArgs struct {
	Product  string            `json:"product"`
	Quantity *int64            `json:"quantity"`
	Size     string            `json:"size"`
	Color    string            `json:"color"`
	Attrs    map[string]string `json:"attrs"`
}

type updateCartArgs struct {
	Product  string `json:"product"`
	Quantity *int64 `json:"quantity"`
}

type removeFromCartArgs struct {
	Product string `json:"product"`
}

func (r *Registry) registerCart() {
	r.add(&Tool{
		Name:        "add_to_cart",
		Description: "Add a product to the cart. Adding a product already in the cart increases its quantity.",
		Params: []Param{
			{Name: "product", Type: TypeString, Description: "Product id or how the user referred to it.", Required: true},
			{Name: "quantity", Type: TypeInteger, Description: "How many to add (default 1)."},
			{Name: "size", Type: TypeString, Description: "Chosen size, if any."},
			{Name: "color", Type: TypeString, Description: "Chosen color, if any."},
			{Name: "attrs", Type: TypeObject, Description: "Other free-form choices."},
		},
		session: true,
		handle:  r.addToCart,
	})

	r.add(&Tool{
		Name:        "update_cart_item",
		Description: "Set the quantity of a product already in the cart. Zero removes it.",
		Params: []Param{
			{Name: "product", Type: TypeString, Description: "Product id or how the user referred to it.", Required: true},
			{Name: "quantity", Type: TypeInteger, Description: "New quantity.", Required: true},
		},
		session: true,
		handle:  r.updateCartItem,
	})

	r.add(&Tool{
		Name:        "remove_from_cart",
		Description: "Remove a product from the cart.",
		Params: []Param{
			{Name: "product", Type: TypeString, Description: "Product id or how the user referred to it.", Required: true},
		},
		session: true,
		handle:  r.removeFromCart,
	})

	r.add(&Tool{
		Name:        "view_cart",
		Description: "Show the cart with prices and subtotal.",
		session:     true,
		handle:      r.viewCart,
	})

	r.add(&Tool{
		Name:        "clear_cart",
		Description: "Empty the cart.",
		session:     true,
		handle:      r.clearCart,
	})
}

func (r *Registry) addToCart(ctx context.Context, c *call) (Result, error) {
	args, err := decode[addToCartArgs](c.args)
	if err != nil {
		return Result{}, err
	}
	if err := requireArg("product", args.Product); err != nil {
		return Result{}, err
	}

	qty := int64(1)
	if args.Quantity != nil {
		qty = *args.Quantity
	}

	attrs := make(map[string]string, len(args.Attrs)+2)
	for k, v := range args.Attrs {
		attrs[k] = v
	}
	if args.Size != "" {
		attrs["size"] = args.Size
	}
	if args.Color != "" {
		attrs["color"] = args.Color
	}

	ref := args.Product
	if p, err := r.resolve(c.sess, ref); err == nil {
		ref = p.ID
	}

	res, err := c.sess.Cart.Add(ctx, ref, qty, attrs)
	if err != nil {
		return Result{}, err
	}

	msg := fmt.Sprintf("Added %d x %s. You now have %d in your cart.", qty, res.Product.Name, res.Line.Quantity)
	return ok(msg, r.cartData(ctx, c)), nil
}

func (r *Registry) updateCartItem(ctx context.Context, c *call) (Result, error) {
	args, err := decode[updateCartArgs](c.args)
	if err != nil {
		return Result{}, err
	}
	if err := requireArg("product", args.Product); err != nil {
		return Result{}, err
	}
	if args.Quantity == nil {
		return Result{}, fmt.Errorf("%w: quantity is required", errBadArgs)
	}

	line, err := c.sess.Cart.Update(ctx, args.Product, *args.Quantity)
	if err != nil {
		return Result{}, err
	}

	msg := fmt.Sprintf("Updated %s to %d.", line.ProductID, line.Quantity)
	if *args.Quantity <= 0 {
		msg = fmt.Sprintf("Removed %s from your cart.", line.ProductID)
	}
	return ok(msg, r.cartData(ctx, c)), nil
}

func (r *Registry) removeFromCart(ctx context.Context, c *call) (Result, error) {
	args, err := decode[removeFromCartArgs](c.args)
	if err != nil {
		return Result{}, err
	}
	if err := requireArg("product", args.Product); err != nil {
		return Result{}, err
	}

	id, err := c.sess.Cart.Remove(ctx, args.Product)
	if err != nil {
		return Result{}, err
	}
	return ok(fmt.Sprintf("Removed %s from your cart.", id), r.cartData(ctx, c)), nil
}

func (r *Registry) viewCart(ctx context.Context, c *call) (Result, error) {
	view := c.sess.Cart.List(ctx)
	if len(view.Lines) == 0 {
		return ok("Your cart is empty.", view), nil
	}

	names := make([]string, 0, len(view.Lines))
	for _, l := range view.Lines {
		if l.Available {
			names = append(names, fmt.Sprintf("%d x %s", l.Quantity, l.Name))
		}
	}
	if view.MixedCurrency {
		msg := fmt.Sprintf("Your cart has %s. The items are priced in different currencies, so there is no single subtotal.", strings.Join(names, ", "))
		return ok(msg, view), nil
	}
	msg := fmt.Sprintf("Your cart has %s. Subtotal %s %s.", strings.Join(names, ", "), view.Subtotal, view.Currency)
	return ok(msg, view), nil
}

func (r *Registry) clearCart(ctx context.Context, c *call) (Result, error) {
	c.sess.Cart.Clear(ctx)
	return ok("Your cart is now empty.", r.cartData(ctx, c)), nil
}

func (r *Registry) cartData(ctx context.Context, c *call) any {
	return c.sess.Cart.List(ctx)
}
