package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campushq/campus-admin-api/internal/core/domain"
)

const courseCollection = "courses"

// MongoCourseRepository persists courses. The collection carries a unique
// index on "code".
type MongoCourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *MongoCourseRepository {
	return &MongoCourseRepository{coll: db.Collection(courseCollection)}
}

type mongoCourse struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Code         string             `bson:"code"`
	Title        string             `bson:"title"`
	Department   string             `bson:"department"`
	Credits      int                `bson:"credits"`
	TeacherEmail string             `bson:"teacher_email"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *MongoCourseRepository) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	doc := mongoCourse{
		Code:         course.Code,
		Title:        course.Title,
		Department:   course.Department,
		Credits:      course.Credits,
		TeacherEmail: course.TeacherEmail,
		CreatedAt:    course.CreatedAt.Unix(),
		UpdatedAt:    course.UpdatedAt.Unix(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCourseExists
		}
		return nil, fmt.Errorf("insert course: %w", err)
	}

	// fetch back to get ID
	created, err := r.FindByCode(ctx, course.Code)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *MongoCourseRepository) FindByCode(ctx context.Context, code string) (*domain.Course, error) {
	var mc mongoCourse
	if err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *MongoCourseRepository) List(ctx context.Context, department string) ([]domain.Course, error) {
	filter := bson.M{}
	if department != "" {
		filter["department"] = department
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Course
	for cursor.Next(ctx) {
		var mc mongoCourse
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode course: %w", err)
		}
		out = append(out, *mc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return out, nil
}

func (r *MongoCourseRepository) DeleteByCode(ctx context.Context, code string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"code": code})
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (mc *mongoCourse) toDomain() *domain.Course {
	return &domain.Course{
		ID:           mc.ID.Hex(),
		Code:         mc.Code,
		Title:        mc.Title,
		Department:   mc.Department,
		Credits:      mc.Credits,
		TeacherEmail: mc.TeacherEmail,
		CreatedAt:    unixToTime(mc.CreatedAt),
		UpdatedAt:    unixToTime(mc.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
