package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"
)

// SeedFile is the YAML layout accepted by seed.
type SeedFile struct {
	Zones        []SeedReference `yaml:"zones"`
	Locations    []SeedReference `yaml:"locations"`
	AccessLevels []SeedReference `yaml:"access_levels"`
	Slots        []SeedSlot      `yaml:"slots"`
}

// SeedReference is a zone, location or access level. Zone names a zone code and
// is only read for locations.
type SeedReference struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Zone string `yaml:"zone"`
}

// SeedSlot is one slot; an existing slot with the same module, date, time and
// tee is left alone.
type SeedSlot struct {
	ModuleType  string `yaml:"module_type"`
	ResourceTag string `yaml:"resource_tag"`
	TeeDate     string `yaml:"tee_date"`
	TeeTime     string `yaml:"tee_time"`
	TeeNumber   int    `yaml:"tee_number"`
	Wave        string `yaml:"wave"`
	Capacity    int    `yaml:"capacity"`
}

// SeedResult counts what seed did.
type SeedResult struct {
	Created int
	Skipped int
}

// ParseSeedFile decodes r, rejecting unknown keys.
func ParseSeedFile(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load zones, locations, access levels and slots from YAML",
		Long: `Load reference data and slots from a YAML file.

Entries whose code (or slot tee) already exists are skipped, so the same file
can be applied repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()

			data, err := ParseSeedFile(fh)
			if err != nil {
				return err
			}

			e, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := Seed(cmd.Context(), e.services(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seed complete: %d created, %d skipped\n", res.Created, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "seed file")
	return cmd
}

// Seed applies data through the service layer as the system operator. Zones go
// first so locations can reference them by code.
func Seed(ctx context.Context, svc *service.Service, data *SeedFile) (SeedResult, error) {
	var res SeedResult

	if err := seedReferences(ctx, svc.Reference, service.KindZone, data.Zones, nil, &res); err != nil {
		return res, err
	}

	zones, err := svc.Reference.List(ctx, operator, service.KindZone)
	if err != nil {
		return res, err
	}
	zoneIDs := make(map[string]string, len(zones))
	for _, z := range zones {
		zoneIDs[z.Code] = z.ID
	}

	if err := seedReferences(ctx, svc.Reference, service.KindLocation, data.Locations, zoneIDs, &res); err != nil {
		return res, err
	}
	if err := seedReferences(ctx, svc.Reference, service.KindAccessLevel, data.AccessLevels, nil, &res); err != nil {
		return res, err
	}
	if err := seedSlots(ctx, svc.Assignment, data.Slots, &res); err != nil {
		return res, err
	}
	return res, nil
}

func seedReferences(ctx context.Context, refs service.ReferenceService, kind service.ReferenceKind, items []SeedReference, zoneIDs map[string]string, res *SeedResult) error {
	for _, it := range items {
		req := &dto.CreateReferenceRequest{Code: it.Code, Name: it.Name, Type: it.Type}
		if it.Zone != "" && zoneIDs != nil {
			id, ok := zoneIDs[strings.ToUpper(strings.TrimSpace(it.Zone))]
			if !ok {
				return fmt.Errorf("%s %s: unknown zone %q", kind, it.Code, it.Zone)
			}
			req.ZoneID = &id
		}

		_, err := refs.Create(ctx, operator, kind, req)
		switch {
		case errors.Is(err, service.ErrCodeTaken):
			res.Skipped++
		case err != nil:
			return fmt.Errorf("%s %s: %w", kind, it.Code, err)
		default:
			res.Created++
		}
	}
	return nil
}

func seedSlots(ctx context.Context, slots service.AssignmentService, items []SeedSlot, res *SeedResult) error {
	for _, it := range items {
		existing, err := slots.ListSlots(ctx, operator, &dto.SlotListRequest{ModuleType: it.ModuleType, Date: it.TeeDate})
		if err != nil {
			return fmt.Errorf("slot %s %s: %w", it.TeeDate, it.TeeTime, err)
		}
		if hasSlot(existing, it) {
			res.Skipped++
			continue
		}

		_, err = slots.CreateSlot(ctx, operator, &dto.CreateSlotRequest{
			ModuleType:  it.ModuleType,
			ResourceTag: it.ResourceTag,
			TeeDate:     it.TeeDate,
			TeeTime:     it.TeeTime,
			TeeNumber:   it.TeeNumber,
			Wave:        it.Wave,
			Capacity:    it.Capacity,
		})
		if err != nil {
			return fmt.Errorf("slot %s %s: %w", it.TeeDate, it.TeeTime, err)
		}
		res.Created++
	}
	return nil
}

func hasSlot(existing []dto.SlotResponse, it SeedSlot) bool {
	tee := it.TeeNumber
	if tee <= 0 {
		tee = 1
	}
	for _, s := range existing {
		if s.TeeDate == it.TeeDate && s.TeeTime == it.TeeTime && s.TeeNumber == tee && s.ResourceTag == it.ResourceTag {
			return true
		}
	}
	return false
}
