package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecommerce-api/models"
)

// Connect opens a MongoDB client and verifies the connection. The caller
// owns the client and must Disconnect it at shutdown.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// Stores bundles the Mongo-backed store implementations over one database.
type Stores struct {
	Users    UserStore
	Products ProductStore
	Carts    CartStore
	Orders   OrderStore

	db *mongo.Database
}

// NewMongoStores builds the stores over the given database handle.
func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Users:    &mongoUserStore{coll: db.Collection("users")},
		Products: &mongoProductStore{coll: db.Collection("products")},
		Carts:    &mongoCartStore{coll: db.Collection("carts")},
		Orders:   &mongoOrderStore{coll: db.Collection("orders")},
		db:       db,
	}
}

// EnsureIndexes creates the uniqueness constraints the data model relies
// on: one account per email and username, one cart per user.
func (s *Stores) EnsureIndexes(ctx context.Context) error {
	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	users := s.db.Collection("users")
	if _, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{unique("email"), unique("username")}); err != nil {
		return err
	}
	carts := s.db.Collection("carts")
	_, err := carts.Indexes().CreateOne(ctx, unique("user_id"))
	return err
}

func mapFindErr(err error) error {
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

type mongoUserStore struct {
	coll *mongo.Collection
}

func (s *mongoUserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *mongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, mapFindErr(err)
	}
	return &user, nil
}

func (s *mongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, mapFindErr(err)
	}
	return &user, nil
}

func (s *mongoUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, mapFindErr(err)
	}
	return &user, nil
}

type mongoProductStore struct {
	coll *mongo.Collection
}

func (s *mongoProductStore) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *mongoProductStore) Find(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = bson.M{"$regex": filter.Name, "$options": "i"}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Brand != "" {
		query["brand"] = filter.Brand
	}
	switch {
	case filter.PriceExact != nil:
		query["price"] = *filter.PriceExact
	case filter.PriceMin != nil && filter.PriceMax != nil:
		query["price"] = bson.M{"$gte": *filter.PriceMin, "$lte": *filter.PriceMax}
	}

	cursor, err := s.coll.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *mongoProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, mapFindErr(err)
	}
	return &product, nil
}

func (s *mongoProductStore) Update(ctx context.Context, id primitive.ObjectID, upd ProductUpdate) (*models.Product, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Brand != nil {
		set["brand"] = *upd.Brand
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return &product, nil
}

func (s *mongoProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoCartStore struct {
	coll *mongo.Collection
}

func (s *mongoCartStore) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	if err := s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart); err != nil {
		return nil, mapFindErr(err)
	}
	return &cart, nil
}

// Save inserts a cart that has no id yet and otherwise rewrites the
// items and total of the existing document.
func (s *mongoCartStore) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	if cart.ID.IsZero() {
		cart.CreatedAt = now
		res, err := s.coll.InsertOne(ctx, cart)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicate
			}
			return err
		}
		cart.ID = res.InsertedID.(primitive.ObjectID)
		return nil
	}
	update := bson.M{"$set": bson.M{
		"items":       cart.Items,
		"total_price": cart.TotalPrice,
		"updated_at":  cart.UpdatedAt,
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": cart.ID}, update)
	return err
}

type mongoOrderStore struct {
	coll *mongo.Collection
}

func (s *mongoOrderStore) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *mongoOrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
