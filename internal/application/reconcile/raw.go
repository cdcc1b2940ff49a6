// internal/application/reconcile/raw.go
package reconcile

// Raw は境界層だけで扱う「フィールド名のゆれを保ったままのレコード」です。
// FieldResolver を通った後の内部コンポーネントは Raw を受け取ってはいけない。
type Raw = map[string]any

// ============================================================
// Alias tables
// ============================================================
//
// 歴史的に複数のフィールド名（camelCase / PascalCase / ネスト）が
// 同じ意味で使われてきたため、正規フィールドごとに優先順のエイリアス表を持つ。
// フィールド名の分岐はこの表と FieldResolver に集約し、他所には書かない。

// productions（raw listing 用）
var (
	prodAliasID = []string{"id", "ID", "Id", "productionId", "ProductionID"}

	prodAliasProductName = []string{"productName", "ProductName", "product.name", "name"}

	// quantity が無いレガシーデータは models の合計で補完する（production_index.go）
	prodAliasQuantity = []string{"quantity", "Quantity", "totalQuantity"}

	prodAliasModels = []string{"models", "Models"}

	prodAliasProductBlueprintID = []string{
		"productBlueprintId",
		"ProductBlueprintID",
		"productBlueprintID",
		"production.productBlueprintId",
		"production.ProductBlueprintID",
	}
)

// mints（list プロジェクション用）
var (
	mintListAliasMintID        = []string{"mintId", "id", "ID"}
	mintListAliasTokenName     = []string{"tokenName", "TokenName"}
	mintListAliasRequesterName = []string{"createdByName", "CreatedByName", "requesterName"}
	mintListAliasMintedAt      = []string{"mintedAt", "MintedAt"}
	mintListAliasMinted        = []string{"minted", "Minted"}
)

// mints（full プロジェクション用）
var (
	mintFullAliasID               = []string{"id", "ID", "mintId"}
	mintFullAliasInspectionID     = []string{"inspectionId", "InspectionID", "productionId", "ProductionID"}
	mintFullAliasTokenBlueprintID = []string{"tokenBlueprintId", "TokenBlueprintID", "tokenBlueprintID"}
	mintFullAliasTokenName        = []string{"tokenName", "TokenName"}
	mintFullAliasRequestedBy      = []string{"createdBy", "CreatedBy", "requestedBy", "RequestedBy"}
	mintFullAliasRequesterName    = []string{"createdByName", "CreatedByName", "requesterName"}
	mintFullAliasCreatedAt        = []string{"createdAt", "CreatedAt"}
	mintFullAliasMinted           = []string{"minted", "Minted"}
	mintFullAliasMintedAt         = []string{"mintedAt", "MintedAt"}
	mintFullAliasBurnDate         = []string{"scheduledBurnDate", "ScheduledBurnDate", "burnDate"}
	mintFullAliasTxSignature      = []string{"txSignature", "TxSignature", "transactionSignature"}
)
