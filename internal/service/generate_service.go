package service

import (
	"context"
	"fmt"

	"collab-docs-be/internal/collab"
	"collab-docs-be/internal/dto"
	"collab-docs-be/internal/pkg/serverutils"
	"collab-docs-be/internal/repository/specification"
	"collab-docs-be/internal/repository/unitofwork"
	"collab-docs-be/pkg/content"
	"collab-docs-be/pkg/llm"
	"collab-docs-be/pkg/markdown"
	"collab-docs-be/pkg/pagination"

	"github.com/google/uuid"
)

const generatePromptTemplate = `You are a writing assistant inside a document editor.
Write the requested content as plain Markdown. Use headings, lists, bold and italic
where they help. Do not wrap the answer in a code fence and do not add commentary.

Request: %s`

type IGenerateService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
}

type generateService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	sessions    *collab.Manager
	docService  IDocumentService
}

func NewGenerateService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	sessions *collab.Manager,
	docService IDocumentService,
) IGenerateService {
	return &generateService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		sessions:    sessions,
		docService:  docService,
	}
}

// Generate asks the model for Markdown, parses it into blocks, and
// appends them to the requested page. Open documents get the insert
// through their live session so every participant sees it; closed ones
// are edited in storage directly.
func (s *generateService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: req.DocumentId},
		specification.AccessibleBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, serverutils.ErrNotFound
	}

	raw, err := s.llmProvider.Generate(ctx, fmt.Sprintf(generatePromptTemplate, req.Prompt))
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	blocks := markdown.Parse(raw)

	if session := s.sessions.Lookup(req.DocumentId); session != nil {
		session.Mutate(func(root []content.Node) ([]content.Node, bool) {
			return appendToPage(root, req.PageIndex, blocks), true
		})
		return &dto.GenerateResponse{Content: session.Content()}, nil
	}

	root, err := content.UnmarshalNodes([]byte(doc.Content))
	if err != nil {
		root = []content.Node{content.DefaultPage()}
	}
	root = appendToPage(pagination.Normalize(root), req.PageIndex, blocks)

	data, err := content.MarshalNodes(root)
	if err != nil {
		return nil, err
	}
	if err := s.docService.SaveContent(ctx, req.DocumentId, string(data)); err != nil {
		return nil, err
	}

	return &dto.GenerateResponse{Content: string(data)}, nil
}

// appendToPage adds blocks to the end of the page at index, clamped to
// the existing pages.
func appendToPage(root []content.Node, index int, blocks []content.Node) []content.Node {
	if len(root) == 0 {
		root = []content.Node{content.DefaultPage()}
	}
	if index < 0 {
		index = 0
	}
	if index >= len(root) {
		index = len(root) - 1
	}
	if page, ok := root[index].(*content.Element); ok {
		page.Children = append(page.Children, blocks...)
	}
	return root
}
