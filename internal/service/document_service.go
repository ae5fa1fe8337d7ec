package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"collab-docs-be/internal/dto"
	"collab-docs-be/internal/entity"
	"collab-docs-be/internal/pkg/serverutils"
	"collab-docs-be/internal/repository/specification"
	"collab-docs-be/internal/repository/unitofwork"
	"collab-docs-be/pkg/content"
	"collab-docs-be/pkg/events"
	"collab-docs-be/pkg/markdown"
	pktNats "collab-docs-be/pkg/nats"
	"collab-docs-be/pkg/pagination"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type IDocumentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentSummary, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error)
	Save(ctx context.Context, userId uuid.UUID, req *dto.SaveContentRequest) (*dto.SaveContentResponse, error)
	Repaginate(ctx context.Context, req *dto.RepaginateRequest) (*dto.RepaginateResponse, error)
	Export(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ExportDocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error

	// Collab session persistence hooks.
	LoadContent(ctx context.Context, documentID uuid.UUID) (string, error)
	SaveContent(ctx context.Context, documentID uuid.UUID, serialized string) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	docCache         *cache.Cache
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		docCache:         cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	visibility := entity.DocumentVisibilityPrivate
	if req.Visibility == string(entity.DocumentVisibilityShared) {
		visibility = entity.DocumentVisibilityShared
	}

	emptyContent, err := content.MarshalNodes([]content.Node{content.DefaultPage()})
	if err != nil {
		return nil, err
	}

	doc := entity.Document{
		Id:         uuid.New(),
		Title:      req.Title,
		Content:    string(emptyContent),
		Visibility: visibility,
		OwnerId:    userId,
		CreatedAt:  time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "DOCUMENT_CREATED", map[string]interface{}{
		"document_id": doc.Id,
		"title":       doc.Title,
		"user_id":     userId,
	})

	return &dto.CreateDocumentResponse{Id: doc.Id}, nil
}

func (s *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	if cached, found := s.docCache.Get(id.String()); found {
		res := cached.(*dto.ShowDocumentResponse)
		if res.OwnerId == userId || res.Visibility == string(entity.DocumentVisibilityShared) {
			return res, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.AccessibleBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, serverutils.ErrNotFound
	}

	res := &dto.ShowDocumentResponse{
		Id:         doc.Id,
		Title:      doc.Title,
		Content:    doc.Content,
		Visibility: string(doc.Visibility),
		OwnerId:    doc.OwnerId,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	s.docCache.Set(id.String(), res, cache.DefaultExpiration)
	return res, nil
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.AccessibleBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]*dto.DocumentSummary, len(docs))
	for i, doc := range docs {
		summaries[i] = &dto.DocumentSummary{
			Id:         doc.Id,
			Title:      doc.Title,
			Visibility: string(doc.Visibility),
			OwnerId:    doc.OwnerId,
			CreatedAt:  doc.CreatedAt,
			UpdatedAt:  doc.UpdatedAt,
		}
	}
	return summaries, nil
}

func (s *documentService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, serverutils.ErrNotFound
	}

	doc.Title = req.Title
	if req.Visibility != "" {
		doc.Visibility = entity.DocumentVisibility(req.Visibility)
	}

	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}
	s.docCache.Delete(req.Id.String())

	return &dto.UpdateDocumentResponse{Id: doc.Id}, nil
}

// Save is the REST save path. The websocket path goes through
// SaveContent via the collab session instead.
func (s *documentService) Save(ctx context.Context, userId uuid.UUID, req *dto.SaveContentRequest) (*dto.SaveContentResponse, error) {
	// Reject content the tree codec cannot read back.
	if _, err := content.UnmarshalNodes([]byte(req.Content)); err != nil {
		return nil, fmt.Errorf("content is not a valid document tree: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.AccessibleBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, serverutils.ErrNotFound
	}

	if err := s.SaveContent(ctx, req.Id, req.Content); err != nil {
		return nil, err
	}

	return &dto.SaveContentResponse{Id: req.Id, SavedAt: time.Now()}, nil
}

// Repaginate reflows the document against client-reported child
// heights. Keys are "pageIdx.childIdx" into the parsed tree.
func (s *documentService) Repaginate(ctx context.Context, req *dto.RepaginateRequest) (*dto.RepaginateResponse, error) {
	root, err := content.UnmarshalNodes([]byte(req.Content))
	if err != nil {
		return nil, fmt.Errorf("content is not a valid document tree: %w", err)
	}
	root = pagination.Normalize(root)

	measurer := pagination.NewMapMeasurer()
	for key, h := range req.Heights {
		node, ok := resolveChild(root, key)
		if !ok {
			continue
		}
		measurer.Set(node, h)
	}

	engine := pagination.NewEngine(measurer)
	reflowed, moved := engine.Reflow(root)

	data, err := content.MarshalNodes(reflowed)
	if err != nil {
		return nil, err
	}
	return &dto.RepaginateResponse{Content: string(data), Moved: moved}, nil
}

// resolveChild maps a "pageIdx.childIdx" key to the node it names.
func resolveChild(root []content.Node, key string) (content.Node, bool) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return nil, false
	}
	p, err := strconv.Atoi(parts[0])
	if err != nil || p < 0 || p >= len(root) {
		return nil, false
	}
	page, ok := root[p].(*content.Element)
	if !ok {
		return nil, false
	}
	c, err := strconv.Atoi(parts[1])
	if err != nil || c < 0 || c >= len(page.Children) {
		return nil, false
	}
	return page.Children[c], true
}

// Export renders the document back to Markdown.
func (s *documentService) Export(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ExportDocumentResponse, error) {
	doc, err := s.Show(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	root, err := content.UnmarshalNodes([]byte(doc.Content))
	if err != nil {
		return nil, fmt.Errorf("stored content is not a valid document tree: %w", err)
	}

	return &dto.ExportDocumentResponse{
		Title:    doc.Title,
		Markdown: markdown.Render(root),
	}, nil
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return serverutils.ErrNotFound
	}

	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	s.docCache.Delete(id.String())

	s.publishEvent(ctx, "DOCUMENT_DELETED", map[string]interface{}{
		"document_id": id,
		"user_id":     userId,
	})
	return nil
}

// LoadContent implements the collab session's persistence hook.
func (s *documentService) LoadContent(ctx context.Context, documentID uuid.UUID) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentID})
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", serverutils.ErrNotFound
	}
	return doc.Content, nil
}

// SaveContent persists serialized content and hands the document id to
// the revision worker.
func (s *documentService) SaveContent(ctx context.Context, documentID uuid.UUID, serialized string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().UpdateContent(ctx, documentID, serialized); err != nil {
		return err
	}
	s.docCache.Delete(documentID.String())

	msgJson, err := json.Marshal(dto.DocumentSavedMessage{DocumentId: documentID})
	if err != nil {
		return err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		// The save itself succeeded; a missed snapshot is tolerable.
		fmt.Printf("[WARN] Failed to publish saved-document message: %v\n", err)
	}
	return nil
}

func (s *documentService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}
