package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

type projectRepository struct {
	coll *mongo.Collection
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	assignID(&project.BaseModel)
	// $addToSet needs an array, never null
	project.TeamIDs = dedupe(project.TeamIDs)
	_, err := r.coll.InsertOne(ctx, project)
	return translate(err, "create project")
}

func (r *projectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&project); err != nil {
		return nil, translate(err, "find project")
	}
	normaliseProject(&project)
	return &project, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, translate(err, "list projects")
	}

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, translate(err, "decode projects")
	}
	for i := range projects {
		normaliseProject(&projects[i])
	}
	return projects, nil
}

func (r *projectRepository) AddMember(ctx context.Context, projectID, userID string) error {
	res, err := r.coll.UpdateOne(ctx, byID(projectID), addMemberUpdate(userID, time.Now().UTC()))
	if err != nil {
		return translate(err, "add project member")
	}
	if res.MatchedCount == 0 {
		return translate(mongo.ErrNoDocuments, "add project member")
	}
	return nil
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, userID string) (*models.Project, error) {
	var project models.Project
	err := r.coll.FindOneAndUpdate(ctx, byID(projectID), pullMemberUpdate(userID, time.Now().UTC()), returnAfter()).Decode(&project)
	if err != nil {
		return nil, translate(err, "remove project member")
	}
	normaliseProject(&project)
	return &project, nil
}

func normaliseProject(p *models.Project) {
	if p.TeamIDs == nil {
		p.TeamIDs = []string{}
	}
}

var _ store.ProjectRepository = (*projectRepository)(nil)
