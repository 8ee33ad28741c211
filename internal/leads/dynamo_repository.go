package leads

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// dynamoSubmission is the item layout in the submissions table.
type dynamoSubmission struct {
	ID            string `dynamodbav:"id"`
	Name          string `dynamodbav:"name"`
	Email         string `dynamodbav:"email"`
	Industry      string `dynamodbav:"industry"`
	MessageID     string `dynamodbav:"messageId,omitempty"`
	ContentSource string `dynamodbav:"contentSource,omitempty"`
	SubmittedAt   string `dynamodbav:"submittedAt"`
}

// DynamoRepository stores submissions in a DynamoDB table keyed by id. It is
// the store used by the Lambda deployment.
type DynamoRepository struct {
	client    dynamoAPI
	tableName string
	now       func() time.Time
}

// NewDynamoRepository builds a store backed by the provided DynamoDB client.
func NewDynamoRepository(client dynamoAPI, tableName string) *DynamoRepository {
	if client == nil {
		panic("leads: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("leads: table name cannot be empty")
	}
	return &DynamoRepository{
		client:    client,
		tableName: tableName,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create writes a new item; ids are never overwritten.
func (r *DynamoRepository) Create(ctx context.Context, req *CreateSubmissionRequest) (*Submission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := req.Lead.Normalized()
	sub := &Submission{
		ID:            uuid.New().String(),
		Name:          lead.Name,
		Email:         lead.Email,
		Industry:      lead.Industry,
		MessageID:     req.MessageID,
		ContentSource: req.ContentSource,
		SubmittedAt:   r.now(),
	}

	item, err := attributevalue.MarshalMap(toDynamo(sub))
	if err != nil {
		return nil, fmt.Errorf("leads: failed to marshal submission: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("leads: failed to persist submission: %w", err)
	}
	return sub, nil
}

// GetByID fetches a submission by ID.
func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*Submission, error) {
	if id == "" {
		return nil, errors.New("leads: id required")
	}
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("leads: failed to fetch submission: %w", err)
	}
	if out.Item == nil {
		return nil, ErrSubmissionNotFound
	}
	var item dynamoSubmission
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("leads: failed to decode submission: %w", err)
	}
	return fromDynamo(item)
}

// List scans the whole table and pages in memory, newest first. Lead tables
// stay small enough that a GSI on submittedAt is not worth the cost.
func (r *DynamoRepository) List(ctx context.Context, filter ListFilter) ([]*Submission, error) {
	var (
		all      []*Submission
		startKey map[string]types.AttributeValue
	)
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("leads: failed to scan submissions: %w", err)
		}
		var items []dynamoSubmission
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("leads: failed to decode submissions: %w", err)
		}
		for _, item := range items {
			sub, err := fromDynamo(item)
			if err != nil {
				return nil, err
			}
			all = append(all, sub)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].SubmittedAt.After(all[j].SubmittedAt)
	})
	return page(all, filter), nil
}

func toDynamo(sub *Submission) dynamoSubmission {
	return dynamoSubmission{
		ID:            sub.ID,
		Name:          sub.Name,
		Email:         sub.Email,
		Industry:      sub.Industry,
		MessageID:     sub.MessageID,
		ContentSource: sub.ContentSource,
		SubmittedAt:   sub.SubmittedAt.Format(time.RFC3339Nano),
	}
}

func fromDynamo(item dynamoSubmission) (*Submission, error) {
	submittedAt, err := time.Parse(time.RFC3339Nano, item.SubmittedAt)
	if err != nil {
		return nil, fmt.Errorf("leads: bad submittedAt on %s: %w", item.ID, err)
	}
	return &Submission{
		ID:            item.ID,
		Name:          item.Name,
		Email:         item.Email,
		Industry:      item.Industry,
		MessageID:     item.MessageID,
		ContentSource: item.ContentSource,
		SubmittedAt:   submittedAt,
	}, nil
}
