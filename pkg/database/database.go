package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var MongoGlobalInstance *MongoInstance

const defaultMongoConnectionString = "mongodb://localhost:27017/"
const defaultMongoDatabase = "agencyfeed"

const (
	RoutesCollection = "routes"
	TripsCollection  = "trips"
	StopsCollection  = "stops"
)

func Connect() error {
	connectionString := defaultMongoConnectionString
	dbName := defaultMongoDatabase

	env := util.GetEnvironmentVariables()

	if env["MONGODB_CONNECTION"] != "" {
		connectionString = env["MONGODB_CONNECTION"]
	}

	if env["MONGODB_DATABASE"] != "" {
		dbName = env["MONGODB_DATABASE"]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return err
	}

	MongoGlobalInstance = &MongoInstance{
		Client:   client,
		Database: client.Database(dbName),
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return err
	}

	log.Info().Str("database", dbName).Msg("Connected to MongoDB")

	createIndexes(ctx)

	return nil
}

func Disconnect(ctx context.Context) error {
	if MongoGlobalInstance == nil {
		return nil
	}

	return MongoGlobalInstance.Client.Disconnect(ctx)
}

func GetCollection(collectionName string) *mongo.Collection {
	return MongoGlobalInstance.Database.Collection(collectionName)
}

func createIndexes(ctx context.Context) {
	indexes := map[string][]mongo.IndexModel{
		RoutesCollection: {
			{Keys: bson.D{{Key: "primaryidentifier", Value: 1}}},
			{Keys: bson.D{{Key: "agency", Value: 1}}},
		},
		TripsCollection: {
			{Keys: bson.D{{Key: "primaryidentifier", Value: 1}}},
			{Keys: bson.D{{Key: "routeref", Value: 1}}},
		},
		StopsCollection: {
			{Keys: bson.D{{Key: "primaryidentifier", Value: 1}}},
			{Keys: bson.D{{Key: "gtfsid", Value: 1}}},
		},
	}

	for collectionName, collectionIndexes := range indexes {
		_, err := GetCollection(collectionName).Indexes().CreateMany(ctx, collectionIndexes, options.CreateIndexes())
		if err != nil {
			log.Error().Str("collection", collectionName).Err(err).Msg("Creating Index")
		}
	}
}
