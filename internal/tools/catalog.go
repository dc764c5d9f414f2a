package tools

import (
	"context"
	"fmt"

	catalogapp "github.com/dwikikusuma/shoping-voice/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/shoping-voice/internal/catalog/domain"
	"github.com/dwikikusuma/shoping-voice/internal/session"
	"github.com/shopspring/decimal"
)

type productView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Color       string          `json:"color,omitempty"`
	Sizes       []string        `json:"sizes,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Description string          `json:"description,omitempty"`
}

func toProductView(p catalogdomain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price.Amount,
		Currency:    p.Price.Currency,
		Color:       p.Color,
		Sizes:       p.Sizes,
		Brand:       p.Brand,
		Tags:        p.Tags,
		Description: p.Description,
	}
}

type listProductsArgs struct {
	Category string          `json:"category"`
	Color    string          `json:"color"`
	Brand    string          `json:"brand"`
	Size     string          `json:"size"`
	Tag      string          `json:"tag"`
	Query    string          `json:"query"`
	MaxPrice decimal.Decimal `json:"max_price"`
	Limit    int             `json:"limit"`
}

type resolveArgs struct {
	Reference string `json:"reference"`
}

func (r *Registry) registerCatalog() {
	// list_products remembers what it read out when there is a session to
	// remember it in.
	r.add(&Tool{
		Name:        "list_products",
		Description: "Search the product catalog. All filters are optional and combined.",
		Params: []Param{
			{Name: "category", Type: TypeString, Description: "Category such as hoodie, mug or mobile."},
			{Name: "color", Type: TypeString, Description: "Exact color."},
			{Name: "brand", Type: TypeString, Description: "Exact brand."},
			{Name: "size", Type: TypeString, Description: "Size the product must come in."},
			{Name: "tag", Type: TypeString, Description: "Tag the product must carry."},
			{Name: "query", Type: TypeString, Description: "Free text matched against name, description, brand and tags."},
			{Name: "max_price", Type: TypeNumber, Description: "Highest acceptable price."},
			{Name: "limit", Type: TypeInteger, Description: "Maximum number of results (default 20)."},
		},
		session: r.deps.Sessions != nil,
		handle:  r.listProducts,
	})

	r.add(&Tool{
		Name:        "resolve_product",
		Description: "Find the single product the user is referring to, e.g. \"the second hoodie\", \"mug-001\" or \"black hoodie\".",
		Params: []Param{
			{Name: "reference", Type: TypeString, Description: "What the user said about the product.", Required: true},
		},
		session: r.deps.Sessions != nil,
		handle:  r.resolveProduct,
	})
}

func (r *Registry) listProducts(ctx context.Context, c *call) (Result, error) {
	args, err := decode[listProductsArgs](c.args)
	if err != nil {
		return Result{}, err
	}

	items := r.deps.Catalog.List(catalogapp.Filter{
		Category: args.Category,
		Color:    args.Color,
		Brand:    args.Brand,
		Size:     args.Size,
		Tag:      args.Tag,
		Query:    args.Query,
		MaxPrice: args.MaxPrice,
		Limit:    args.Limit,
	})

	views := make([]productView, 0, len(items))
	ids := make([]string, 0, len(items))
	for _, p := range items {
		views = append(views, toProductView(p))
		ids = append(ids, p.ID)
	}
	if c.sess != nil {
		c.sess.LastListed = ids
	}

	msg := fmt.Sprintf("Found %d products.", len(views))
	if len(views) == 0 {
		msg = "No products match that."
	}
	return ok(msg, map[string]any{"products": views, "count": len(views)}), nil
}

func (r *Registry) resolveProduct(ctx context.Context, c *call) (Result, error) {
	args, err := decode[resolveArgs](c.args)
	if err != nil {
		return Result{}, err
	}
	if err := requireArg("reference", args.Reference); err != nil {
		return Result{}, err
	}

	p, err := r.resolve(c.sess, args.Reference)
	if err != nil {
		return Result{}, err
	}
	return ok(fmt.Sprintf("That is %s (%s).", p.Name, p.ID), toProductView(p)), nil
}

// resolve tries an exact id, then the session's last listing, then the whole
// catalog. A reference naming a category the listing lacks skips the listing.
func (r *Registry) resolve(sess *session.Session, ref string) (catalogdomain.Product, error) {
	if p, err := r.deps.Catalog.Get(ref); err == nil {
		return p, nil
	}
	if sess != nil && len(sess.LastListed) > 0 {
		listed := make([]catalogdomain.Product, 0, len(sess.LastListed))
		for _, id := range sess.LastListed {
			if p, err := r.deps.Catalog.Get(id); err == nil {
				listed = append(listed, p)
			}
		}
		if p, err := r.deps.Catalog.ResolveIn(ref, listed); err == nil {
			return p, nil
		}
	}
	return r.deps.Catalog.Resolve(ref)
}
