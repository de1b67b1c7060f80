package db

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/google/uuid"
	"github.com/jsphweid/motifdex/constants"
	"github.com/jsphweid/motifdex/model"
	"github.com/pkg/errors"
)

const artifactSortKey = "ARTIFACT"

// DynamoStore keeps artifacts and their instances in one table. An artifact
// lives under its type and value; its instances live under its id.
type DynamoStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

type artifactRecord struct {
	PK    string
	SK    string
	ID    string
	Type  string
	Value string
}

type instanceRecord struct {
	PK        string
	SK        string
	SongID    uint32
	Version   int
	Voice     int
	StartTick int
	EndTick   int
	Pitches   []int `dynamodbav:",omitempty"`
}

func NewDynamoStore(client dynamodbiface.DynamoDBAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

// Connect opens a store on the table and endpoint from the environment.
func Connect() (*DynamoStore, error) {
	endpoint := constants.GetDynamoEndpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewDynamoStore(dynamodb.New(sess), constants.GetArtifactTable()), nil
}

func artifactPK(a model.Artifact) string {
	return fmt.Sprintf("ARTIFACT#%v#%v", a.Type, a.Value)
}

func key(pk, sk string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(pk)},
		"SK": {S: aws.String(sk)},
	}
}

func (s *DynamoStore) find(ctx context.Context, a model.Artifact) (model.Artifact, bool, error) {
	out, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       key(artifactPK(a), artifactSortKey),
	})
	if err != nil {
		return a, false, errors.Wrap(err, "error from DynamoDB")
	}
	if len(out.Item) == 0 {
		return a, false, nil
	}
	var rec artifactRecord
	if err := dynamodbattribute.UnmarshalMap(out.Item, &rec); err != nil {
		return a, false, errors.Wrap(err, "could not read artifact record")
	}
	a.ID = rec.ID
	return a, true, nil
}

// FindOrCreate looks the artifact up by type and value and creates it with a
// fresh id when it is missing. A concurrent create of the same artifact wins
// and its id is returned.
func (s *DynamoStore) FindOrCreate(ctx context.Context, a model.Artifact) (model.Artifact, error) {
	found, ok, err := s.find(ctx, a)
	if err != nil || ok {
		return found, err
	}

	a.ID = uuid.New().String()
	item, err := dynamodbattribute.MarshalMap(artifactRecord{
		PK:    artifactPK(a),
		SK:    artifactSortKey,
		ID:    a.ID,
		Type:  a.Type.String(),
		Value: a.Value,
	})
	if err != nil {
		return a, errors.Wrap(err, "could not build artifact record")
	}
	_, err = s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
		found, _, err := s.find(ctx, a)
		return found, err
	}
	if err != nil {
		return a, errors.Wrap(err, "error from DynamoDB")
	}
	return a, nil
}

func (s *DynamoStore) AddInstance(ctx context.Context, artifactID string, inst model.Instance) error {
	var pitches []int
	for _, n := range inst.Notes {
		pitches = append(pitches, n.Pitch)
	}
	item, err := dynamodbattribute.MarshalMap(instanceRecord{
		PK:        "INSTANCES#" + artifactID,
		SK:        fmt.Sprintf("%010d#%v#%v#%010d", inst.SongID, inst.Version, inst.Voice, inst.StartTick),
		SongID:    inst.SongID,
		Version:   inst.Version,
		Voice:     inst.Voice,
		StartTick: inst.StartTick,
		EndTick:   inst.EndTick,
		Pitches:   pitches,
	})
	if err != nil {
		return errors.Wrap(err, "could not build instance record")
	}
	if _, err := s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return errors.Wrap(err, "error from DynamoDB")
	}
	return nil
}

// Instances reads back every instance stored for an artifact id.
func (s *DynamoStore) Instances(ctx context.Context, artifactID string) ([]model.Instance, error) {
	var res []model.Instance
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":pk": {S: aws.String("INSTANCES#" + artifactID)},
		},
	}
	err := s.client.QueryPagesWithContext(ctx, input, func(page *dynamodb.QueryOutput, last bool) bool {
		for _, item := range page.Items {
			var rec instanceRecord
			if err := dynamodbattribute.UnmarshalMap(item, &rec); err != nil {
				continue
			}
			res = append(res, model.Instance{
				SongID:    rec.SongID,
				Version:   rec.Version,
				Voice:     rec.Voice,
				StartTick: rec.StartTick,
				EndTick:   rec.EndTick,
			})
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "error from DynamoDB")
	}
	return res, nil
}
