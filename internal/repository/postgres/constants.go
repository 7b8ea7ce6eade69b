package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errCardNotFound       = "card not found"
	errCodeNotFound       = "code not found"
	errSocialLinkNotFound = "social link not found"
	errAssetNotFound      = "asset not found"
	errActiveCodeExists   = "card already has an active code"
	errAssetAlreadyExists = "asset already exists"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedApplySchemaFmt          = "failed to apply schema statement %d: %w"

	errFailedStartTransactionFmt  = "failed to start transaction: %w"
	errFailedCommitTransactionFmt = "failed to commit transaction: %w"

	errFailedCreateCardFmt = "failed to create card: %w"
	errFailedGetCardFmt    = "failed to get card: %w"
	errFailedLockCardFmt   = "failed to lock card: %w"
	errFailedUpdateCardFmt = "failed to update card: %w"
	errFailedDeleteCardFmt = "failed to delete card: %w"

	errFailedCreateCodeFmt     = "failed to create code: %w"
	errFailedGetCodeFmt        = "failed to get code: %w"
	errFailedDeactivateCodeFmt = "failed to deactivate codes: %w"
	errFailedListCodesFmt      = "failed to list codes: %w"
	errFailedScanCodeFmt       = "failed to scan code: %w"

	errFailedCreateSocialFmt = "failed to create social link: %w"
	errFailedGetSocialFmt    = "failed to get social link: %w"
	errFailedListSocialsFmt  = "failed to list social links: %w"
	errFailedScanSocialFmt   = "failed to scan social link: %w"
	errFailedUpdateSocialFmt = "failed to update social link: %w"
	errFailedSetIconFmt      = "failed to set social link icon: %w"
	errFailedDeleteSocialFmt = "failed to delete social link: %w"

	errFailedCreateAssetFmt = "failed to create asset: %w"
	errFailedGetAssetFmt    = "failed to get asset: %w"
	errFailedListAssetsFmt  = "failed to list assets: %w"
	errFailedScanAssetFmt   = "failed to scan asset: %w"
	errFailedDeleteAssetFmt = "failed to delete asset: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedApplySchema          = func(i int, err error) error { return fmt.Errorf(errFailedApplySchemaFmt, i, err) }

	errFailedStartTransaction  = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedCommitTransaction = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }

	errFailedCreateCard = func(err error) error { return fmt.Errorf(errFailedCreateCardFmt, err) }
	errFailedGetCard    = func(err error) error { return fmt.Errorf(errFailedGetCardFmt, err) }
	errFailedLockCard   = func(err error) error { return fmt.Errorf(errFailedLockCardFmt, err) }
	errFailedUpdateCard = func(err error) error { return fmt.Errorf(errFailedUpdateCardFmt, err) }
	errFailedDeleteCard = func(err error) error { return fmt.Errorf(errFailedDeleteCardFmt, err) }

	errFailedCreateCode     = func(err error) error { return fmt.Errorf(errFailedCreateCodeFmt, err) }
	errFailedGetCode        = func(err error) error { return fmt.Errorf(errFailedGetCodeFmt, err) }
	errFailedDeactivateCode = func(err error) error { return fmt.Errorf(errFailedDeactivateCodeFmt, err) }
	errFailedListCodes      = func(err error) error { return fmt.Errorf(errFailedListCodesFmt, err) }
	errFailedScanCode       = func(err error) error { return fmt.Errorf(errFailedScanCodeFmt, err) }

	errFailedCreateSocial = func(err error) error { return fmt.Errorf(errFailedCreateSocialFmt, err) }
	errFailedGetSocial    = func(err error) error { return fmt.Errorf(errFailedGetSocialFmt, err) }
	errFailedListSocials  = func(err error) error { return fmt.Errorf(errFailedListSocialsFmt, err) }
	errFailedScanSocial   = func(err error) error { return fmt.Errorf(errFailedScanSocialFmt, err) }
	errFailedUpdateSocial = func(err error) error { return fmt.Errorf(errFailedUpdateSocialFmt, err) }
	errFailedSetIcon      = func(err error) error { return fmt.Errorf(errFailedSetIconFmt, err) }
	errFailedDeleteSocial = func(err error) error { return fmt.Errorf(errFailedDeleteSocialFmt, err) }

	errFailedCreateAsset = func(err error) error { return fmt.Errorf(errFailedCreateAssetFmt, err) }
	errFailedGetAsset    = func(err error) error { return fmt.Errorf(errFailedGetAssetFmt, err) }
	errFailedListAssets  = func(err error) error { return fmt.Errorf(errFailedListAssetsFmt, err) }
	errFailedScanAsset   = func(err error) error { return fmt.Errorf(errFailedScanAssetFmt, err) }
	errFailedDeleteAsset = func(err error) error { return fmt.Errorf(errFailedDeleteAssetFmt, err) }
)
