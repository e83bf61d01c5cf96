package writer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/appdata"
	"github.com/travigo/agencyfeed/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MongoBatchSize = 500

type mongoRoute struct {
	PrimaryIdentifier    string
	ModificationDateTime time.Time
	Agency               string

	appdata.Route `bson:",inline"`
}

type mongoTrip struct {
	PrimaryIdentifier    string
	ModificationDateTime time.Time
	Agency               string
	RouteRef             string
	Stops                []*appdata.TripStop

	appdata.Trip `bson:",inline"`
}

type mongoStop struct {
	PrimaryIdentifier    string
	ModificationDateTime time.Time
	Agency               string

	appdata.Stop `bson:",inline"`
}

// MongoWriter upserts routes, trips and stops keyed by primaryidentifier.
// database.Connect must have been called.
type MongoWriter struct {
	BatchSize int
}

func (w *MongoWriter) Write(ctx context.Context, dataset *appdata.Dataset) error {
	batchSize := w.BatchSize
	if batchSize <= 0 || batchSize > MongoBatchSize {
		batchSize = MongoBatchSize
	}

	allModels := WriteModels(dataset, time.Now())

	for _, collectionName := range []string{database.RoutesCollection, database.TripsCollection, database.StopsCollection} {
		models := allModels[collectionName]
		collection := database.GetCollection(collectionName)

		log.Info().Str("collection", collectionName).Int("length", len(models)).Msg("Starting bulk upsert")

		for _, batch := range batches(models, batchSize) {
			_, err := collection.BulkWrite(ctx, batch, options.BulkWrite().SetOrdered(false))
			if err != nil {
				return fmt.Errorf("bulk write %s: %w", collectionName, err)
			}
		}

		log.Info().Str("collection", collectionName).Msg("Finished bulk upsert")
	}

	return nil
}

func agencyIdentifier(agency appdata.Agency) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(agency.Name)), " ", "-")
}

func upsert(primaryIdentifier string, document interface{}) mongo.WriteModel {
	updateModel := mongo.NewUpdateOneModel()
	updateModel.SetFilter(bson.M{"primaryidentifier": primaryIdentifier})
	updateModel.SetUpdate(bson.M{"$set": document})
	updateModel.SetUpsert(true)

	return updateModel
}

// WriteModels builds the upserts of every collection.
func WriteModels(dataset *appdata.Dataset, now time.Time) map[string][]mongo.WriteModel {
	agency := agencyIdentifier(dataset.Agency)
	routeIdentifier := func(routeID uint64) string {
		return fmt.Sprintf("%s-route-%d", agency, routeID)
	}

	models := map[string][]mongo.WriteModel{}

	for _, route := range dataset.Routes {
		identifier := routeIdentifier(route.ID)
		models[database.RoutesCollection] = append(models[database.RoutesCollection], upsert(identifier, &mongoRoute{
			PrimaryIdentifier:    identifier,
			ModificationDateTime: now,
			Agency:               agency,
			Route:                *route,
		}))
	}

	tripStops := map[uint64][]*appdata.TripStop{}
	for _, tripStop := range dataset.TripStops {
		tripStops[tripStop.TripID] = append(tripStops[tripStop.TripID], tripStop)
	}

	for _, trip := range dataset.Trips {
		identifier := fmt.Sprintf("%s-trip-%d", agency, trip.ID)
		models[database.TripsCollection] = append(models[database.TripsCollection], upsert(identifier, &mongoTrip{
			PrimaryIdentifier:    identifier,
			ModificationDateTime: now,
			Agency:               agency,
			RouteRef:             routeIdentifier(trip.RouteID),
			Stops:                tripStops[trip.ID],
			Trip:                 *trip,
		}))
	}

	for _, stop := range dataset.Stops {
		identifier := fmt.Sprintf("%s-stop-%d", agency, stop.ID)
		models[database.StopsCollection] = append(models[database.StopsCollection], upsert(identifier, &mongoStop{
			PrimaryIdentifier:    identifier,
			ModificationDateTime: now,
			Agency:               agency,
			Stop:                 *stop,
		}))
	}

	return models
}

func batches(models []mongo.WriteModel, size int) [][]mongo.WriteModel {
	var result [][]mongo.WriteModel

	for start := 0; start < len(models); start += size {
		end := min(start+size, len(models))
		result = append(result, models[start:end])
	}

	return result
}
