package catalog

func init() {
	c = buildCatalog(seedConcepts())
}

func seedConcepts() []Concept {
	return []Concept{
		{Ordinal: 1, Symbol: "Fu", Name: "期货定义", Category: CategoryBasic, ShortDesc: "什么是期货？"},
		{Ordinal: 2, Symbol: "Df", Name: "期现区别", Category: CategoryBasic, ShortDesc: "期货 vs 股票"},
		{Ordinal: 3, Symbol: "Ex", Name: "交易所", Category: CategoryBasic, ShortDesc: "交易场所"},

		{Ordinal: 4, Symbol: "Mg", Name: "保证金", Category: CategoryMechanism, ShortDesc: "以小博大"},
		{Ordinal: 5, Symbol: "Lv", Name: "杠杆", Category: CategoryMechanism, ShortDesc: "资金放大"},
		{Ordinal: 6, Symbol: "Bi", Name: "双向交易", Category: CategoryMechanism, ShortDesc: "做多与做空"},
		{Ordinal: 7, Symbol: "T0", Name: "T+0", Category: CategoryMechanism, ShortDesc: "日内回转"},
		{Ordinal: 8, Symbol: "St", Name: "结算", Category: CategoryMechanism, ShortDesc: "每日无负债"},

		{Ordinal: 9, Symbol: "Lq", Name: "爆仓", Category: CategoryRisk, ShortDesc: "保证金不足"},
		{Ordinal: 10, Symbol: "Mc", Name: "追加保证金", Category: CategoryRisk, ShortDesc: "Margin Call"},
		{Ordinal: 11, Symbol: "Lm", Name: "涨跌停板", Category: CategoryRisk, ShortDesc: "价格限制"},

		{Ordinal: 12, Symbol: "Wr", Name: "仓单", Category: CategoryAsset, ShortDesc: "实物凭证"},
		{Ordinal: 13, Symbol: "Dl", Name: "交割", Category: CategoryAsset, ShortDesc: "合约履行"},
		{Ordinal: 14, Symbol: "Mn", Name: "主力合约", Category: CategoryAsset, ShortDesc: "活跃月份"},

		{Ordinal: 15, Symbol: "Lk", Name: "锁仓", Category: CategoryStrategy, ShortDesc: "锁定盈亏"},
		{Ordinal: 16, Symbol: "Hg", Name: "套期保值", Category: CategoryStrategy, ShortDesc: "对冲风险"},
		{Ordinal: 17, Symbol: "Ar", Name: "套利", Category: CategoryStrategy, ShortDesc: "价差获利"},
	}
}
