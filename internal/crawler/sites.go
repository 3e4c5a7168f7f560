package crawler

import "github.com/Adda-Baaj/tour-sosik/pkg/providers"

func board(id, name, url string) providers.Provider {
	return providers.Provider{ID: id, Name: name, Type: providers.ProviderTypeBoard, SourceURL: url}
}

// DefaultSites lists the municipal press boards scanned for funding and
// support announcements, in fetch order.
func DefaultSites() []providers.Provider {
	return []providers.Provider{
		// metropolitan cities
		board("gov-seoul", "서울특별시청", "https://www.seoul.go.kr/news/news_report.do"),
		board("gov-busan", "부산광역시청", "https://www.busan.go.kr/nbgosi"),
		board("gov-daegu", "대구광역시청", "https://www.daegu.go.kr/index.do?menu_id=00000052"),
		board("gov-incheon", "인천광역시청", "https://www.incheon.go.kr/ic010205"),
		board("gov-gwangju", "광주광역시청", "https://www.gwangju.go.kr/boardList.do?boardId=BD_0000000027&menuId=gwangju0303010000"),
		board("gov-daejeon", "대전광역시청", "https://www.daejeon.go.kr/drh/drhBoardList.do?boardId=normal_0007&menuSeq=1631"),
		board("gov-ulsan", "울산광역시청", "https://www.ulsan.go.kr/u/rep/bbs/list.ulsan?bbsId=BBS_0000000000000027&mId=001004003001000000"),
		board("gov-sejong", "세종특별자치시청", "https://www.sejong.go.kr/bbs/R0071/list.do"),

		// provinces
		board("gov-gyeonggi", "경기도청", "https://www.gg.go.kr/bbs/board.do?bsIdx=469&menuId=1535"),
		board("gov-gangwon", "강원특별자치도청", "https://www.provin.gangwon.kr/gw/portal/sub03_01_01"),
		board("gov-chungbuk", "충청북도청", "https://www.chungbuk.go.kr/www/selectBbsNttList.do?bbsNo=3271&key=1552"),
		board("gov-chungnam", "충청남도청", "https://www.chungnam.go.kr/cnportal/cnapcPressList/cnapcPress/list.do?menuNo=500498"),
		board("gov-jeonbuk", "전북특별자치도청", "https://www.jeonbuk.go.kr/board/list.jeonbuk?boardId=BODO_DATA&menuId=DOM_000000102001001000"),
		board("gov-jeonnam", "전라남도청", "https://www.jeonnam.go.kr/M7124/boardList.do?menuId=jeonnam0201000000"),
		board("gov-gyeongbuk", "경상북도청", "https://www.gb.go.kr/Main/page.do?mnu_uid=6792"),
		board("gov-gyeongnam", "경상남도청", "https://www.gyeongnam.go.kr/board/list.gyeongnam?boardId=BBS_0000057&menuId=DOM_000000102001001000"),
		board("gov-jeju", "제주특별자치도청", "https://www.jeju.go.kr/news/bodo.htm"),

		// Seoul districts
		board("gu-jongno", "종로구청", "https://www.jongno.go.kr/portal/bbs/B0000002/list.do?menuNo=1754"),
		board("gu-junggu", "중구청", "https://www.junggu.seoul.kr/news/board/list.do?bbsId=BBSMSTR_000000000031&menuNo=200045"),
		board("gu-yongsan", "용산구청", "https://www.yongsan.go.kr/portal/bbs/B0000002/list.do?menuNo=200190"),
		board("gu-seongdong", "성동구청", "https://www.sd.go.kr/main/selectBbsNttList.do?bbsNo=183&key=1476"),
		board("gu-gwangjin", "광진구청", "https://www.gwangjin.go.kr/portal/bbs/B0000002/list.do?menuNo=200191"),
		board("gu-dongdaemun", "동대문구청", "https://www.ddm.go.kr/www/selectBbsNttList.do?bbsNo=41&key=69"),
		board("gu-jungnang", "중랑구청", "https://www.jungnang.go.kr/portal/bbs/B0000002/list.do?menuNo=200461"),
		board("gu-seongbuk", "성북구청", "https://www.sb.go.kr/main/selectBbsNttList.do?bbsNo=3&key=151"),
		board("gu-gangbuk", "강북구청", "https://www.gangbuk.go.kr/portal/bbs/B0000002/list.do?menuNo=200192"),
		board("gu-dobong", "도봉구청", "https://www.dobong.go.kr/bbs.asp?code=10004132"),
		board("gu-nowon", "노원구청", "https://www.nowon.kr/www/user/bbs/BD_selectBbsList.do?q_bbsCode=1001&q_menuSn=12"),
		board("gu-eunpyeong", "은평구청", "https://www.ep.go.kr/CmsWeb/viewPage.do?version=1&menuId=MN20210204000000002"),
		board("gu-seodaemun", "서대문구청", "https://www.sdm.go.kr/news/news/report.do"),
		board("gu-mapo", "마포구청", "https://www.mapo.go.kr/site/main/board/news/list"),
		board("gu-yangcheon", "양천구청", "https://www.yangcheon.go.kr/site/main/board/news/list"),
		board("gu-gangseo", "강서구청", "https://www.gangseo.seoul.kr/news/news010101"),
		board("gu-guro", "구로구청", "https://www.guro.go.kr/www/selectBbsNttList.do?bbsNo=642&key=1787"),
		board("gu-geumcheon", "금천구청", "https://www.geumcheon.go.kr/portal/selectBbsNttList.do?bbsNo=151&key=198"),
		board("gu-yeongdeungpo", "영등포구청", "https://www.ydp.go.kr/www/selectBbsNttList.do?bbsNo=40&key=2791"),
		board("gu-dongjak", "동작구청", "https://www.dongjak.go.kr/portal/bbs/B0000002/list.do?menuNo=200635"),
		board("gu-gwanak", "관악구청", "https://www.gwanak.go.kr/site/gwanak/ex/bbs/List.do?cbIdx=239"),
		board("gu-seocho", "서초구청", "https://www.seocho.go.kr/site/seocho/ex/bbs/List.do?cbIdx=243"),
		board("gu-gangnam", "강남구청", "https://www.gangnam.go.kr/board/B_000001/list.do?menuNo=GS040101"),
		board("gu-songpa", "송파구청", "https://www.songpa.go.kr/www/selectBbsNttList.do?bbsNo=7&key=2775"),
		board("gu-gangdong", "강동구청", "https://www.gangdong.go.kr/web/newportal/press/list"),
	}
}
