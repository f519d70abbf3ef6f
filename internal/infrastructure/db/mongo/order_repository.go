package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/productstore/store-api/internal/core/domain"
)

const collectionOrders = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

type lineItemDocument struct {
	ProductID string  `bson:"product_id"`
	Name      string  `bson:"name,omitempty"`
	Quantity  int     `bson:"quantity"`
	UnitPrice float64 `bson:"unit_price,omitempty"`
}

type orderDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Purchaser string             `bson:"purchaser"`
	Items     []lineItemDocument `bson:"items"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d orderDocument) toDomain() *domain.Order {
	items := make([]domain.LineItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = domain.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return &domain.Order{
		ID:        d.ID.Hex(),
		Purchaser: d.Purchaser,
		Items:     items,
		Status:    domain.OrderStatus(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// Create inserts a new order document.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := orderDocument{
		Purchaser: o.Purchaser,
		Items:     make([]lineItemDocument, len(o.Items)),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
	for i, it := range o.Items {
		doc.Items[i] = lineItemDocument{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// List returns orders, newest first. When purchaser is non-empty only that
// purchaser's orders are returned.
func (r *OrderRepository) List(ctx context.Context, purchaser string) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if purchaser != "" {
		filter["purchaser"] = purchaser
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}

	var docs []orderDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	out := make([]*domain.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// EnsureIndexes creates the purchaser index used by scoped listings.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "purchaser", Value: 1}},
	})
	return err
}
