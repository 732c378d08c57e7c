package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zvonline/contracts-service/internal/models"
	"github.com/zvonline/contracts-service/pkg/log"
)

// Organisations возвращает сводный список организаций пользователя.
func (s *Service) Organisations(ctx context.Context) ([]models.Organisation, error) {
	const op = "service.Organisations"

	orgs, err := s.orgs.Organisations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orgs, nil
}

// OrganisationByID резолвит каноническую запись организации из двух
// независимых источников.
//
// Детальный запрос и сводный список выполняются конкурентно; отказ одного
// не прерывает другой. Итог:
//   - оба отказали — *FetchError с обеими причинами;
//   - иначе — слияние: совпадение из сводного списка (строковое равенство
//     id) служит базой, детальная запись накладывается поверх по полям,
//     пустые значения накладываемой стороны пропускаются;
//   - организации нет нигде — ErrOrganisationNotFound;
//   - если после слияния id пуст, он принудительно равен запрошенному:
//     ключ запроса авторитетен, даже когда оба источника его опустили.
func (s *Service) OrganisationByID(ctx context.Context, id string) (models.Organisation, error) {
	const op = "service.OrganisationByID"

	lg := log.From(ctx)

	var (
		wg sync.WaitGroup

		detail     models.Organisation
		detailErr  error
		summary    []models.Organisation
		summaryErr error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		detail, detailErr = s.orgs.OrganisationDetails(ctx, id)
	}()

	go func() {
		defer wg.Done()
		summary, summaryErr = s.orgs.Organisations(ctx)
	}()

	wg.Wait()

	if detailErr != nil && summaryErr != nil {
		lg.Warn("organisation_resolve_failed",
			slog.String("op", op),
			slog.String("org_id", id),
			slog.String("details_err", detailErr.Error()),
			slog.String("summary_err", summaryErr.Error()),
		)

		return models.Organisation{}, fmt.Errorf("%s: %w", op, &FetchError{DetailsErr: detailErr, SummaryErr: summaryErr})
	}

	var base models.Organisation
	summaryFound := false

	for _, org := range summary {
		if org.ID == id {
			base = org
			summaryFound = true
			break
		}
	}

	if detailErr != nil {
		if !summaryFound {
			return models.Organisation{}, fmt.Errorf("%s: %w", op, ErrOrganisationNotFound)
		}

		// Сводных данных достаточно; детальный отказ лишь логируем.
		lg.Debug("organisation_details_soft_fail",
			slog.String("op", op),
			slog.String("org_id", id),
			slog.String("err", detailErr.Error()),
		)

		return finalizeOrganisation(base, id), nil
	}

	if !summaryFound && summaryErr != nil {
		// Сводный список отказал — работаем только с деталями.
		lg.Debug("organisation_summary_soft_fail",
			slog.String("op", op),
			slog.String("org_id", id),
			slog.String("err", summaryErr.Error()),
		)
	}

	return finalizeOrganisation(mergeOrganisations(base, detail), id), nil
}

// mergeOrganisations накладывает overlay на base по правилу
// «последнее непустое побеждает»: непустое значение overlay вытесняет
// значение base, пустое — пропускается. Имя-заглушка приравнивается к
// пустому значению, чтобы не затирать настоящее имя.
func mergeOrganisations(base, overlay models.Organisation) models.Organisation {
	pick := func(b, o string) string {
		if o != "" {
			return o
		}

		return b
	}

	baseName := base.Name
	if baseName == models.UnknownOrganisationName {
		baseName = ""
	}

	overlayName := overlay.Name
	if overlayName == models.UnknownOrganisationName {
		overlayName = ""
	}

	return models.Organisation{
		ID:        pick(base.ID, overlay.ID),
		Name:      pick(baseName, overlayName),
		TaxNumber: pick(base.TaxNumber, overlay.TaxNumber),
		Address: models.Address{
			Street:     pick(base.Street, overlay.Street),
			PostalCode: pick(base.PostalCode, overlay.PostalCode),
			City:       pick(base.City, overlay.City),
			Country:    pick(base.Country, overlay.Country),
		},
	}
}

// finalizeOrganisation восстанавливает инварианты слитой записи:
// принудительный id и имя-заглушка вместо пустого. Полный адрес не
// участвует в слиянии вовсе — он всегда производный от четырёх полей
// адреса (models.Address.FullAddress).
func finalizeOrganisation(org models.Organisation, requestedID string) models.Organisation {
	if org.ID == "" {
		org.ID = requestedID
	}

	if org.Name == "" {
		org.Name = models.UnknownOrganisationName
	}

	return org
}
